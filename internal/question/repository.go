package question

import (
	"context"

	"gorm.io/gorm"
)

type QuestionRepository interface {
	ByLevel(ctx context.Context, level int) ([]Question, error)
}

type GormQuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *GormQuestionRepository {
	return &GormQuestionRepository{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Question{})
}

func (r *GormQuestionRepository) ByLevel(ctx context.Context, level int) ([]Question, error) {
	questions := []Question{}
	err := r.db.WithContext(ctx).
		Where("level = ?", level).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

// Seed inserts questions in one transaction, only when the table is empty.
// It reports how many rows were inserted.
func Seed(ctx context.Context, db *gorm.DB, questions []Question) (int, error) {
	inserted := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Question{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, q := range questions {
			q.ID = 0
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
