package user

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (*User, *UserStats, error) {
	args := m.Called(ctx, username, passwordHash, now)
	u, _ := args.Get(0).(*User)
	s, _ := args.Get(1).(*UserStats)
	return u, s, args.Error(2)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id uint) (*User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *MockUserRepository) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	args := m.Called(ctx, username, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateUsername(ctx context.Context, id uint, username string) error {
	args := m.Called(ctx, id, username)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) FetchUserStats(ctx context.Context, userID uint) (*UserStats, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*UserStats)
	return s, args.Error(1)
}

func (m *MockUserRepository) UpdateUserStats(ctx context.Context, stats *UserStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, userID uint, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

type MockBoardListener struct {
	mock.Mock
}

func (m *MockBoardListener) BoardChanged(ctx context.Context) {
	m.Called(ctx)
}
