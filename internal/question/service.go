package question

import (
	"context"

	"github.com/thesrcielos/LernCasino/internal/apperrors"
)

type QuestionService struct {
	repo QuestionRepository
}

func NewQuestionService(repo QuestionRepository) *QuestionService {
	return &QuestionService{repo: repo}
}

// ForLevel returns the level's questions in insertion order, never nil.
func (s *QuestionService) ForLevel(ctx context.Context, level int) ([]QuestionResponse, error) {
	rows, err := s.repo.ByLevel(ctx, level)
	if err != nil {
		return nil, apperrors.Internal("error loading questions", err)
	}

	out := make([]QuestionResponse, 0, len(rows))
	for _, q := range rows {
		out = append(out, q.Response())
	}
	return out, nil
}
