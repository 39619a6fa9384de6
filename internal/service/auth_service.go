package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

const bcryptCost = 10

// mysqlDuplicateEntry is the server error code for a unique-constraint violation.
const mysqlDuplicateEntry = 1062

// AuthService handles registration, login and session operations.
type AuthService interface {
	Register(ctx context.Context, username, email, mobile, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, token string) error
	CheckSession(ctx context.Context, token string) (*auth.Session, error)
}

type authService struct {
	userRepo repository.UserRepository
	sessions auth.SessionStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessions auth.SessionStoreInterface) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
	}
}

// Register creates a new user with a hashed password. Uniqueness of
// username, email and mobile is enforced by the store; a duplicate-entry
// violation surfaces as ErrUserAlreadyExists.
func (s *authService) Register(ctx context.Context, username, email, mobile, password string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		Mobile:       mobile,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicateEntry(err) {
			return nil, errors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and opens a server-side session, returning its
// opaque token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	return token, user, nil
}

// Logout destroys the session. Unknown tokens are not an error.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// CheckSession returns the session bound to the token, or nil when the
// token is absent or unknown. It never mutates state.
func (s *authService) CheckSession(ctx context.Context, token string) (*auth.Session, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, nil
	}
	return session, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return stderrors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
