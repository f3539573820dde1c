package user

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thesrcielos/LernCasino/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestUserService(t *testing.T) (*UserService, *MockUserRepository) {
	t.Helper()
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, NewTokenIssuer("test-secret", 7*24*time.Hour))
	service.hashCost = bcrypt.MinCost
	service.now = func() time.Time { return fixedNow }
	return service, mockRepo
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func intPtr(v int) *int { return &v }

func TestUserService_Register(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()

	created := &User{ID: 1, Username: "anna", AvatarColor: DefaultAvatarColor}
	stats := NewUserStats(1, fixedNow)
	mockRepo.On("UsernameTaken", ctx, "anna", uint(0)).Return(false, nil)
	mockRepo.On("CreateUser", ctx, "anna", mock.AnythingOfType("string"), fixedNow).Return(created, &stats, nil)

	resp, err := service.Register(ctx, Credentials{Username: "anna", Password: "geheim"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, &Profile{ID: 1, Username: "anna", AvatarColor: DefaultAvatarColor, Level: 1, Hearts: 3}, resp.User)

	claims, err := service.tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "anna", claims.Username)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Register_StoresHashNotPassword(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()

	var storedHash string
	stats := NewUserStats(2, fixedNow)
	mockRepo.On("UsernameTaken", ctx, "ben", uint(0)).Return(false, nil)
	mockRepo.On("CreateUser", ctx, "ben", mock.AnythingOfType("string"), fixedNow).
		Run(func(args mock.Arguments) { storedHash = args.String(2) }).
		Return(&User{ID: 2, Username: "ben"}, &stats, nil)

	_, err := service.Register(ctx, Credentials{Username: "ben", Password: "passwort"})
	require.NoError(t, err)
	assert.NotEqual(t, "passwort", storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("passwort")))
}

func TestUserService_Register_Validation(t *testing.T) {
	service, mockRepo := newTestUserService(t)

	cases := []Credentials{
		{Username: "", Password: "geheim"},
		{Username: "anna", Password: ""},
		{Username: "anna", Password: "abc"},
	}
	for _, creds := range cases {
		_, err := service.Register(context.Background(), creds)
		assert.Equal(t, http.StatusBadRequest, apperrors.Code(err))
	}
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Register_Duplicate(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()
	mockRepo.On("UsernameTaken", ctx, "anna", uint(0)).Return(true, nil)

	_, err := service.Register(ctx, Credentials{Username: "anna", Password: "geheim"})
	assert.Equal(t, http.StatusConflict, apperrors.Code(err))
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Register_DuplicateRace(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()
	mockRepo.On("UsernameTaken", ctx, "anna", uint(0)).Return(false, nil)
	mockRepo.On("CreateUser", ctx, "anna", mock.AnythingOfType("string"), fixedNow).Return(nil, nil, ErrUsernameTaken)

	_, err := service.Register(ctx, Credentials{Username: "anna", Password: "geheim"})
	assert.Equal(t, http.StatusConflict, apperrors.Code(err))
}

func TestUserService_Login(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()

	found := &User{ID: 3, Username: "cara", PasswordHash: hashed(t, "geheim")}
	stats := &UserStats{UserID: 3, Level: 2, XP: 150, Coins: 5, Hearts: 2, Streak: 1, BestStreak: 4}
	mockRepo.On("FindByUsername", ctx, "cara").Return(found, nil)
	mockRepo.On("FetchUserStats", ctx, uint(3)).Return(stats, nil)
	mockRepo.On("TouchLastLogin", ctx, uint(3), fixedNow).Return(nil)

	resp, err := service.Login(ctx, Credentials{Username: "cara", Password: "geheim"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 150, resp.User.XP)
	assert.Equal(t, 4, resp.User.BestStreak)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Login_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()

	found := &User{ID: 3, Username: "cara", PasswordHash: hashed(t, "geheim")}
	mockRepo.On("FindByUsername", ctx, "cara").Return(found, nil)
	mockRepo.On("FindByUsername", ctx, "nobody").Return(nil, ErrUserNotFound)

	_, wrongPassword := service.Login(ctx, Credentials{Username: "cara", Password: "falsch"})
	_, unknownUser := service.Login(ctx, Credentials{Username: "nobody", Password: "geheim"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, wrongPassword, unknownUser)
	assert.Equal(t, http.StatusUnauthorized, apperrors.Code(unknownUser))
	mockRepo.AssertNotCalled(t, "TouchLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Login_Validation(t *testing.T) {
	service, _ := newTestUserService(t)

	_, err := service.Login(context.Background(), Credentials{Username: "cara"})
	assert.Equal(t, http.StatusBadRequest, apperrors.Code(err))
}

func TestUserService_Me_NotFound(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()
	mockRepo.On("GetUser", ctx, uint(9)).Return(nil, ErrUserNotFound)

	_, err := service.Me(ctx, 9)
	assert.Equal(t, http.StatusNotFound, apperrors.Code(err))
}

func TestUserService_UpdateMe(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()

	before := &User{ID: 4, Username: "dora"}
	after := &User{ID: 4, Username: "dori", AvatarColor: DefaultAvatarColor}
	stats := NewUserStats(4, fixedNow)
	mockRepo.On("GetUser", ctx, uint(4)).Return(before, nil).Once()
	mockRepo.On("UsernameTaken", ctx, "dori", uint(4)).Return(false, nil)
	mockRepo.On("UpdateUsername", ctx, uint(4), "dori").Return(nil)
	mockRepo.On("UpdatePasswordHash", ctx, uint(4), mock.AnythingOfType("string")).Return(nil)
	mockRepo.On("GetUser", ctx, uint(4)).Return(after, nil).Once()
	mockRepo.On("FetchUserStats", ctx, uint(4)).Return(&stats, nil)

	profile, err := service.UpdateMe(ctx, 4, ProfileUpdate{Username: "dori", Password: "neuespw"})
	require.NoError(t, err)
	assert.Equal(t, "dori", profile.Username)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateMe_ShortPasswordIgnored(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()

	u := &User{ID: 4, Username: "dora"}
	stats := NewUserStats(4, fixedNow)
	mockRepo.On("GetUser", ctx, uint(4)).Return(u, nil)
	mockRepo.On("FetchUserStats", ctx, uint(4)).Return(&stats, nil)

	_, err := service.UpdateMe(ctx, 4, ProfileUpdate{Password: "abc"})
	require.NoError(t, err)
	mockRepo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_UpdateMe_UsernameTaken(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()

	mockRepo.On("GetUser", ctx, uint(4)).Return(&User{ID: 4, Username: "dora"}, nil)
	mockRepo.On("UsernameTaken", ctx, "anna", uint(4)).Return(true, nil)

	_, err := service.UpdateMe(ctx, 4, ProfileUpdate{Username: "anna"})
	assert.Equal(t, http.StatusConflict, apperrors.Code(err))
	mockRepo.AssertNotCalled(t, "UpdateUsername", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_UpdateProgress_PartialAndMonotonicBestStreak(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	listener := &MockBoardListener{}
	service.OnBoardChange(listener)
	ctx := context.Background()

	current := &UserStats{UserID: 5, Level: 2, XP: 120, Coins: 10, Hearts: 3, Streak: 2, BestStreak: 7}
	mockRepo.On("FetchUserStats", ctx, uint(5)).Return(current, nil)
	mockRepo.On("UpdateUserStats", ctx, &UserStats{
		UserID: 5, Level: 2, XP: 130, Coins: 10, Hearts: 0, Streak: 3, BestStreak: 7,
	}).Return(nil)
	listener.On("BoardChanged", ctx).Return()

	err := service.UpdateProgress(ctx, 5, ProgressUpdate{
		XP:         intPtr(130),
		Hearts:     intPtr(0),
		Streak:     intPtr(3),
		BestStreak: intPtr(3),
	})
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
	listener.AssertExpectations(t)
}

func TestUserService_UpdateProgress_StatsMissing(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()
	mockRepo.On("FetchUserStats", ctx, uint(6)).Return(nil, ErrStatsNotFound)

	err := service.UpdateProgress(ctx, 6, ProgressUpdate{XP: intPtr(10)})
	assert.Equal(t, http.StatusNotFound, apperrors.Code(err))
}

func TestUserService_UpdateProgress_RepositoryError(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	ctx := context.Background()
	mockRepo.On("FetchUserStats", ctx, uint(7)).Return(&UserStats{UserID: 7}, nil)
	mockRepo.On("UpdateUserStats", ctx, mock.AnythingOfType("*user.UserStats")).Return(errors.New("locked"))

	err := service.UpdateProgress(ctx, 7, ProgressUpdate{})
	assert.Equal(t, http.StatusInternalServerError, apperrors.Code(err))
}

func TestProgressUpdate_Apply(t *testing.T) {
	current := UserStats{UserID: 1, Level: 3, XP: 250, Coins: 4, Hearts: 2, Streak: 5, BestStreak: 5}

	assert.Equal(t, current, ProgressUpdate{}.Apply(current))

	next := ProgressUpdate{Coins: intPtr(0), BestStreak: intPtr(9)}.Apply(current)
	assert.Equal(t, 0, next.Coins)
	assert.Equal(t, 9, next.BestStreak)
	assert.Equal(t, 250, next.XP)
}

func TestProgressUpdate_Apply_BestStreakCoversStreak(t *testing.T) {
	current := UserStats{UserID: 1, Streak: 2, BestStreak: 3}

	next := ProgressUpdate{Streak: intPtr(10)}.Apply(current)
	assert.Equal(t, 10, next.Streak)
	assert.Equal(t, 10, next.BestStreak)

	next = ProgressUpdate{Streak: intPtr(12), BestStreak: intPtr(4)}.Apply(current)
	assert.Equal(t, 12, next.BestStreak)

	next = ProgressUpdate{Streak: intPtr(0), BestStreak: intPtr(1)}.Apply(current)
	assert.Equal(t, 0, next.Streak)
	assert.Equal(t, 3, next.BestStreak)
}

func TestUserService_Register_NotifiesBoard(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	listener := &MockBoardListener{}
	service.OnBoardChange(listener)
	ctx := context.Background()

	stats := NewUserStats(3, fixedNow)
	mockRepo.On("UsernameTaken", ctx, "cara", uint(0)).Return(false, nil)
	mockRepo.On("CreateUser", ctx, "cara", mock.AnythingOfType("string"), fixedNow).
		Return(&User{ID: 3, Username: "cara"}, &stats, nil)
	listener.On("BoardChanged", ctx).Return().Once()

	_, err := service.Register(ctx, Credentials{Username: "cara", Password: "geheim"})
	require.NoError(t, err)
	listener.AssertExpectations(t)
}

func TestUserService_Register_DuplicateDoesNotNotify(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	listener := &MockBoardListener{}
	service.OnBoardChange(listener)
	ctx := context.Background()
	mockRepo.On("UsernameTaken", ctx, "anna", uint(0)).Return(true, nil)

	_, err := service.Register(ctx, Credentials{Username: "anna", Password: "geheim"})
	assert.Error(t, err)
	listener.AssertNotCalled(t, "BoardChanged", mock.Anything)
}

func TestUserService_UpdateMe_RenameNotifiesBoard(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	listener := &MockBoardListener{}
	service.OnBoardChange(listener)
	ctx := context.Background()

	stats := NewUserStats(4, fixedNow)
	mockRepo.On("GetUser", ctx, uint(4)).Return(&User{ID: 4, Username: "dora"}, nil).Once()
	mockRepo.On("UsernameTaken", ctx, "dori", uint(4)).Return(false, nil)
	mockRepo.On("UpdateUsername", ctx, uint(4), "dori").Return(nil)
	mockRepo.On("GetUser", ctx, uint(4)).Return(&User{ID: 4, Username: "dori"}, nil).Once()
	mockRepo.On("FetchUserStats", ctx, uint(4)).Return(&stats, nil)
	listener.On("BoardChanged", ctx).Return().Once()

	_, err := service.UpdateMe(ctx, 4, ProfileUpdate{Username: "dori"})
	require.NoError(t, err)
	listener.AssertExpectations(t)
}

func TestUserService_UpdateMe_PasswordOnlyDoesNotNotify(t *testing.T) {
	service, mockRepo := newTestUserService(t)
	listener := &MockBoardListener{}
	service.OnBoardChange(listener)
	ctx := context.Background()

	stats := NewUserStats(4, fixedNow)
	mockRepo.On("GetUser", ctx, uint(4)).Return(&User{ID: 4, Username: "dora"}, nil)
	mockRepo.On("UpdatePasswordHash", ctx, uint(4), mock.AnythingOfType("string")).Return(nil)
	mockRepo.On("FetchUserStats", ctx, uint(4)).Return(&stats, nil)

	_, err := service.UpdateMe(ctx, 4, ProfileUpdate{Password: "neuespw"})
	require.NoError(t, err)
	listener.AssertNotCalled(t, "BoardChanged", mock.Anything)
}
