package user

import "time"

const (
	DefaultAvatarColor = "#7F5AF0"
	MinPasswordLength  = 4

	defaultLevel  = 1
	defaultHearts = 3
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	AvatarColor  string    `json:"avatar_color"`
}

// UserStats is the 1:1 gameplay record of a user. BestStreak never decreases.
type UserStats struct {
	UserID     uint       `gorm:"primaryKey;autoIncrement:false" json:"-"`
	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Level      int        `gorm:"not null;default:1" json:"level"`
	XP         int        `gorm:"column:xp;not null;default:0" json:"xp"`
	Coins      int        `gorm:"not null;default:0" json:"coins"`
	Hearts     int        `gorm:"not null;default:3" json:"hearts"`
	Streak     int        `gorm:"not null;default:0" json:"streak"`
	BestStreak int        `gorm:"not null;default:0" json:"best_streak"`
	LastLogin  *time.Time `json:"-"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

func NewUserStats(userID uint, now time.Time) UserStats {
	return UserStats{
		UserID:    userID,
		Level:     defaultLevel,
		Hearts:    defaultHearts,
		LastLogin: &now,
	}
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProgressUpdate is a partial stats write. A nil field keeps the stored value;
// a pointer to zero overwrites it with zero.
type ProgressUpdate struct {
	Level      *int `json:"level"`
	XP         *int `json:"xp"`
	Coins      *int `json:"coins"`
	Hearts     *int `json:"hearts"`
	Streak     *int `json:"streak"`
	BestStreak *int `json:"bestStreak"`
}

// Apply merges the update into current. BestStreak never decreases and never
// falls below the resulting Streak.
func (p ProgressUpdate) Apply(current UserStats) UserStats {
	next := current
	next.Level = valueOr(p.Level, current.Level)
	next.XP = valueOr(p.XP, current.XP)
	next.Coins = valueOr(p.Coins, current.Coins)
	next.Hearts = valueOr(p.Hearts, current.Hearts)
	next.Streak = valueOr(p.Streak, current.Streak)
	next.BestStreak = max(valueOr(p.BestStreak, current.BestStreak), current.BestStreak, next.Streak)
	return next
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

// Profile is a user merged with its stats, the shape every user endpoint returns.
type Profile struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	AvatarColor string `json:"avatar_color"`
	Level       int    `json:"level"`
	XP          int    `json:"xp"`
	Coins       int    `json:"coins"`
	Hearts      int    `json:"hearts"`
	Streak      int    `json:"streak"`
	BestStreak  int    `json:"best_streak"`
}

func NewProfile(u *User, s *UserStats) *Profile {
	return &Profile{
		ID:          u.ID,
		Username:    u.Username,
		AvatarColor: u.AvatarColor,
		Level:       s.Level,
		XP:          s.XP,
		Coins:       s.Coins,
		Hearts:      s.Hearts,
		Streak:      s.Streak,
		BestStreak:  s.BestStreak,
	}
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}
