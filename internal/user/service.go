package user

import (
	"context"
	"errors"
	"time"

	"github.com/thesrcielos/LernCasino/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgRegisterInvalid    = "Username and password (min. 4 chars) required"
	msgLoginInvalid       = "Username and password required"
	msgInvalidCredentials = "Invalid credentials"
	msgUsernameTaken      = "Username already taken"
	msgUserNotFound       = "User not found"
	msgStatsNotFound      = "Stats not found"
)

// BoardListener is told about every write that can change the public
// leaderboard: registrations, renames and progress.
type BoardListener interface {
	BoardChanged(ctx context.Context)
}

type UserService struct {
	repo     UserRepository
	tokens   *TokenIssuer
	listener BoardListener
	hashCost int
	now      func() time.Time
}

func NewUserService(repo UserRepository, tokens *TokenIssuer) *UserService {
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (u *UserService) OnBoardChange(l BoardListener) {
	u.listener = l
}

func (u *UserService) Register(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	if creds.Username == "" || len(creds.Password) < MinPasswordLength {
		return nil, apperrors.BadRequest(msgRegisterInvalid)
	}

	taken, err := u.repo.UsernameTaken(ctx, creds.Username, 0)
	if err != nil {
		return nil, apperrors.Internal("error checking username", err)
	}
	if taken {
		return nil, apperrors.Conflict(msgUsernameTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), u.hashCost)
	if err != nil {
		return nil, apperrors.Internal("error hashing password", err)
	}

	created, stats, err := u.repo.CreateUser(ctx, creds.Username, string(hash), u.now())
	if errors.Is(err, ErrUsernameTaken) {
		return nil, apperrors.Conflict(msgUsernameTaken)
	}
	if err != nil {
		return nil, apperrors.Internal("error creating user", err)
	}
	u.boardChanged(ctx)

	return u.authResponse(created, stats)
}

// Login answers unknown usernames and wrong passwords with the same error.
func (u *UserService) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, apperrors.BadRequest(msgLoginInvalid)
	}

	found, err := u.repo.FindByUsername(ctx, creds.Username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, apperrors.Internal("error loading user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperrors.Unauthorized(msgInvalidCredentials)
	}

	stats, err := u.repo.FetchUserStats(ctx, found.ID)
	if errors.Is(err, ErrStatsNotFound) {
		return nil, apperrors.NotFound(msgStatsNotFound)
	}
	if err != nil {
		return nil, apperrors.Internal("error loading stats", err)
	}

	if err := u.repo.TouchLastLogin(ctx, found.ID, u.now()); err != nil {
		return nil, apperrors.Internal("error updating last login", err)
	}

	return u.authResponse(found, stats)
}

func (u *UserService) Me(ctx context.Context, userID uint) (*Profile, error) {
	found, err := u.repo.GetUser(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperrors.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, apperrors.Internal("error loading user", err)
	}

	stats, err := u.repo.FetchUserStats(ctx, userID)
	if errors.Is(err, ErrStatsNotFound) {
		return nil, apperrors.NotFound(msgStatsNotFound)
	}
	if err != nil {
		return nil, apperrors.Internal("error loading stats", err)
	}

	return NewProfile(found, stats), nil
}

// UpdateMe changes the username and/or password. Passwords shorter than
// MinPasswordLength are ignored.
func (u *UserService) UpdateMe(ctx context.Context, userID uint, update ProfileUpdate) (*Profile, error) {
	if _, err := u.repo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.NotFound(msgUserNotFound)
		}
		return nil, apperrors.Internal("error loading user", err)
	}

	if update.Username != "" {
		taken, err := u.repo.UsernameTaken(ctx, update.Username, userID)
		if err != nil {
			return nil, apperrors.Internal("error checking username", err)
		}
		if taken {
			return nil, apperrors.Conflict(msgUsernameTaken)
		}
		if err := u.repo.UpdateUsername(ctx, userID, update.Username); err != nil {
			if errors.Is(err, ErrUsernameTaken) {
				return nil, apperrors.Conflict(msgUsernameTaken)
			}
			return nil, apperrors.Internal("error updating username", err)
		}
		u.boardChanged(ctx)
	}

	if len(update.Password) >= MinPasswordLength {
		hash, err := bcrypt.GenerateFromPassword([]byte(update.Password), u.hashCost)
		if err != nil {
			return nil, apperrors.Internal("error hashing password", err)
		}
		if err := u.repo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
			return nil, apperrors.Internal("error updating password", err)
		}
	}

	return u.Me(ctx, userID)
}

func (u *UserService) UpdateProgress(ctx context.Context, userID uint, update ProgressUpdate) error {
	current, err := u.repo.FetchUserStats(ctx, userID)
	if errors.Is(err, ErrStatsNotFound) {
		return apperrors.NotFound(msgStatsNotFound)
	}
	if err != nil {
		return apperrors.Internal("error loading stats", err)
	}

	next := update.Apply(*current)
	if err := u.repo.UpdateUserStats(ctx, &next); err != nil {
		if errors.Is(err, ErrStatsNotFound) {
			return apperrors.NotFound(msgStatsNotFound)
		}
		return apperrors.Internal("error updating user stats", err)
	}

	u.boardChanged(ctx)
	return nil
}

func (u *UserService) boardChanged(ctx context.Context) {
	if u.listener != nil {
		u.listener.BoardChanged(ctx)
	}
}

func (u *UserService) authResponse(found *User, stats *UserStats) (*AuthResponse, error) {
	token, err := u.tokens.Issue(found)
	if err != nil {
		return nil, apperrors.Internal("error creating jwt token", err)
	}
	return &AuthResponse{
		Token: token,
		User:  NewProfile(found, stats),
	}, nil
}
