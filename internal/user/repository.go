package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrStatsNotFound = errors.New("stats not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type UserRepository interface {
	CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (*User, *UserStats, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	GetUser(ctx context.Context, id uint) (*User, error)
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	UpdateUsername(ctx context.Context, id uint, username string) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	FetchUserStats(ctx context.Context, userID uint) (*UserStats, error)
	UpdateUserStats(ctx context.Context, stats *UserStats) error
	TouchLastLogin(ctx context.Context, userID uint, at time.Time) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &UserStats{})
}

// CreateUser inserts the user and its default stats row in one transaction.
func (r *GormUserRepository) CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (*User, *UserStats, error) {
	u := User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		AvatarColor:  DefaultAvatarColor,
	}
	var stats UserStats

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return err
		}
		stats = NewUserStats(u.ID, now)
		return tx.Omit(clause.Associations).Create(&stats).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &u, &stats, nil
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetUser(ctx context.Context, id uint) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) UpdateUsername(ctx context.Context, id uint, username string) error {
	err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("username", username).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	return err
}

func (r *GormUserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *GormUserRepository) FetchUserStats(ctx context.Context, userID uint) (*UserStats, error) {
	var s UserStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStatsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateUserStats writes all six stat fields in a single UPDATE.
func (r *GormUserRepository) UpdateUserStats(ctx context.Context, stats *UserStats) error {
	result := r.db.WithContext(ctx).
		Model(&UserStats{}).
		Where("user_id = ?", stats.UserID).
		Updates(map[string]interface{}{
			"level":       stats.Level,
			"xp":          stats.XP,
			"coins":       stats.Coins,
			"hearts":      stats.Hearts,
			"streak":      stats.Streak,
			"best_streak": stats.BestStreak,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatsNotFound
	}
	return nil
}

func (r *GormUserRepository) TouchLastLogin(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&UserStats{}).
		Where("user_id = ?", userID).
		Update("last_login", at).Error
}
