package leaderboard

import (
	"context"

	"gorm.io/gorm"
)

const TopLimit = 50

type Entry struct {
	Username   string `gorm:"column:username" json:"username"`
	Level      int    `gorm:"column:level" json:"level"`
	XP         int    `gorm:"column:xp" json:"xp"`
	Streak     int    `gorm:"column:streak" json:"streak"`
	BestStreak int    `gorm:"column:best_streak" json:"best_streak"`
}

type LeaderboardRepository interface {
	Top(ctx context.Context, limit int) ([]Entry, error)
}

type GormLeaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *GormLeaderboardRepository {
	return &GormLeaderboardRepository{db: db}
}

// Top orders by xp descending; ties keep registration order.
func (r *GormLeaderboardRepository) Top(ctx context.Context, limit int) ([]Entry, error) {
	entries := []Entry{}
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.username, s.level, s.xp, s.streak, s.best_streak").
		Joins("JOIN user_stats s ON s.user_id = u.id").
		Order("s.xp DESC, u.id ASC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
