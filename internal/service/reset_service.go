package service

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	"fintrack/internal/delivery"
	"fintrack/internal/errors"
	"fintrack/internal/identifier"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

// CodeExpiry is how long an issued one-time passcode stays valid.
const CodeExpiry = 10 * time.Minute

// ResetService drives the forgot-password / verify-otp / reset-password flow.
type ResetService interface {
	ForgotPassword(ctx context.Context, ident identifier.Identifier) error
	VerifyOTP(ctx context.Context, ident identifier.Identifier, code string) (resetToken string, err error)
	ResetPassword(ctx context.Context, claims *auth.ResetClaims, newPassword string) error
}

type resetService struct {
	userRepo    repository.UserRepository
	resetRepo   repository.PasswordResetRepository
	resetTokens *auth.ResetTokenService
	permits     auth.PermitStoreInterface
	smsSender   delivery.Sender
	emailSender delivery.Sender
}

// NewResetService creates a new password reset service.
func NewResetService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	resetTokens *auth.ResetTokenService,
	permits auth.PermitStoreInterface,
	smsSender delivery.Sender,
	emailSender delivery.Sender,
) ResetService {
	return &resetService{
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		resetTokens: resetTokens,
		permits:     permits,
		smsSender:   smsSender,
		emailSender: emailSender,
	}
}

// ForgotPassword issues and delivers a passcode when the identifier matches
// a user. It returns nil either way: the caller must not be able to tell
// whether an account exists from this call.
func (s *resetService) ForgotPassword(ctx context.Context, ident identifier.Identifier) error {
	_, err := s.userRepo.FindByIdentifier(ctx, ident)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate passcode: %w", err)
	}

	reset := &model.PasswordReset{
		Identifier: ident.Value,
		Code:       code,
		ExpiresAt:  time.Now().Add(CodeExpiry),
	}
	if err := s.resetRepo.Upsert(ctx, reset); err != nil {
		return fmt.Errorf("store passcode: %w", err)
	}

	message := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.",
		code, int(CodeExpiry.Minutes()))
	if err := s.sender(ident).Send(ctx, ident.Value, message); err != nil {
		// Delivery failures are logged but not surfaced: a channel-specific
		// error would reveal that the identifier matched an account.
		log.Printf("passcode delivery failed: %v", err)
	}
	return nil
}

// VerifyOTP consumes the passcode in a single conditional delete and, on
// success, returns a signed single-use reset token scoped to the identifier.
func (s *resetService) VerifyOTP(ctx context.Context, ident identifier.Identifier, code string) (string, error) {
	ok, err := s.resetRepo.ConsumeCode(ctx, ident.Value, code, time.Now())
	if err != nil {
		return "", fmt.Errorf("consume passcode: %w", err)
	}
	if !ok {
		return "", s.classifyFailure(ctx, ident, code)
	}

	tokenID, token, err := s.resetTokens.Issue(ident)
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}
	if err := s.permits.Grant(ctx, tokenID, auth.ResetTokenExpiry); err != nil {
		return "", fmt.Errorf("grant reset permit: %w", err)
	}

	// A verified passcode proves control of the contact channel.
	if user, err := s.userRepo.FindByIdentifier(ctx, ident); err == nil && !user.IsVerified {
		if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
			log.Printf("mark user verified: %v", err)
		}
	}

	return token, nil
}

// classifyFailure distinguishes a wrong code from an expired one. The extra
// read races harmlessly with concurrent writers: only the error message is
// at stake, the code itself was already rejected atomically.
func (s *resetService) classifyFailure(ctx context.Context, ident identifier.Identifier, code string) error {
	reset, err := s.resetRepo.Find(ctx, ident.Value)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrInvalidCode
		}
		return fmt.Errorf("find passcode: %w", err)
	}
	if reset.Code == code && time.Now().After(reset.ExpiresAt) {
		return errors.ErrCodeExpired
	}
	return errors.ErrInvalidCode
}

// ResetPassword retires the reset permission and replaces the password of
// the user matched by the token's identifier. The permit is single-use:
// a second call with the same token fails with ErrUnauthorized.
func (s *resetService) ResetPassword(ctx context.Context, claims *auth.ResetClaims, newPassword string) error {
	ok, err := s.permits.Consume(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("consume reset permit: %w", err)
	}
	if !ok {
		return errors.ErrUnauthorized
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ident := claims.TaggedIdentifier()
	if err := s.userRepo.UpdatePassword(ctx, ident, string(hashedPassword)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *resetService) sender(ident identifier.Identifier) delivery.Sender {
	if ident.IsMobile() {
		return s.smsSender
	}
	return s.emailSender
}

// generateCode returns six uniformly random decimal digits, leading zeros
// included.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
