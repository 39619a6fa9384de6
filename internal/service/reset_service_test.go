package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/identifier"
	"fintrack/internal/model"
)

// MockPasswordResetRepository is a mock implementation of PasswordResetRepository.
type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) Upsert(ctx context.Context, reset *model.PasswordReset) error {
	args := m.Called(ctx, reset)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) Find(ctx context.Context, ident string) (*model.PasswordReset, error) {
	args := m.Called(ctx, ident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordReset), args.Error(1)
}

func (m *MockPasswordResetRepository) ConsumeCode(ctx context.Context, ident, code string, now time.Time) (bool, error) {
	args := m.Called(ctx, ident, code, now)
	return args.Bool(0), args.Error(1)
}

// MockPermitStore is a mock implementation of PermitStoreInterface.
type MockPermitStore struct {
	mock.Mock
}

func (m *MockPermitStore) Grant(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockPermitStore) Consume(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// recordingSender captures messages instead of delivering them.
type recordingSender struct {
	destinations []string
	messages     []string
}

func (s *recordingSender) Send(_ context.Context, destination, message string) error {
	s.destinations = append(s.destinations, destination)
	s.messages = append(s.messages, message)
	return nil
}

func TestResetService_ForgotPassword_UnknownIdentifier(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockResets := new(MockPasswordResetRepository)
	sms := &recordingSender{}
	email := &recordingSender{}

	ident := identifier.Identifier{Kind: identifier.KindEmail, Value: "ghost@x.com"}
	mockUsers.On("FindByIdentifier", mock.Anything, ident).Return(nil, gorm.ErrRecordNotFound)

	service := NewResetService(mockUsers, mockResets, auth.NewResetTokenService("test-secret"), new(MockPermitStore), sms, email)

	// Unknown identifiers succeed silently: no code stored, nothing sent.
	err := service.ForgotPassword(context.Background(), ident)
	assert.NoError(t, err)
	assert.Empty(t, sms.messages)
	assert.Empty(t, email.messages)
	mockResets.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestResetService_ForgotPassword_DeliversByChannel(t *testing.T) {
	tests := []struct {
		name      string
		ident     identifier.Identifier
		wantSMS   bool
		wantEmail bool
	}{
		{
			name:    "mobile identifier goes out via sms",
			ident:   identifier.Identifier{Kind: identifier.KindMobile, Value: "+15551234567"},
			wantSMS: true,
		},
		{
			name:      "email identifier goes out via email",
			ident:     identifier.Identifier{Kind: identifier.KindEmail, Value: "alice@x.com"},
			wantEmail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockResets := new(MockPasswordResetRepository)
			sms := &recordingSender{}
			email := &recordingSender{}

			mockUsers.On("FindByIdentifier", mock.Anything, tt.ident).Return(&model.User{ID: 7}, nil)

			var stored *model.PasswordReset
			mockResets.On("Upsert", mock.Anything, mock.AnythingOfType("*model.PasswordReset")).
				Run(func(args mock.Arguments) {
					stored = args.Get(1).(*model.PasswordReset)
				}).Return(nil)

			service := NewResetService(mockUsers, mockResets, auth.NewResetTokenService("test-secret"), new(MockPermitStore), sms, email)

			err := service.ForgotPassword(context.Background(), tt.ident)
			assert.NoError(t, err)

			assert.NotNil(t, stored)
			assert.Equal(t, tt.ident.Value, stored.Identifier)
			assert.Regexp(t, `^\d{6}$`, stored.Code)
			assert.WithinDuration(t, time.Now().Add(CodeExpiry), stored.ExpiresAt, 5*time.Second)

			if tt.wantSMS {
				assert.Len(t, sms.messages, 1)
				assert.Empty(t, email.messages)
				assert.Equal(t, tt.ident.Value, sms.destinations[0])
				assert.Contains(t, sms.messages[0], stored.Code)
			}
			if tt.wantEmail {
				assert.Len(t, email.messages, 1)
				assert.Empty(t, sms.messages)
				assert.Equal(t, tt.ident.Value, email.destinations[0])
				assert.Contains(t, email.messages[0], stored.Code)
			}

			mockResets.AssertExpectations(t)
		})
	}
}

func TestResetService_VerifyOTP_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockResets := new(MockPasswordResetRepository)
	mockPermits := new(MockPermitStore)
	tokens := auth.NewResetTokenService("test-secret")

	ident := identifier.Identifier{Kind: identifier.KindMobile, Value: "+15551234567"}
	mockResets.On("ConsumeCode", mock.Anything, ident.Value, "123456", mock.Anything).Return(true, nil)
	mockPermits.On("Grant", mock.Anything, mock.AnythingOfType("string"), auth.ResetTokenExpiry).Return(nil)
	mockUsers.On("FindByIdentifier", mock.Anything, ident).Return(&model.User{ID: 7, IsVerified: false}, nil)
	mockUsers.On("MarkVerified", mock.Anything, uint(7)).Return(nil)

	service := NewResetService(mockUsers, mockResets, tokens, mockPermits, &recordingSender{}, &recordingSender{})

	token, err := service.VerifyOTP(context.Background(), ident, "123456")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// The returned token is scoped to the verified identifier.
	claims, err := tokens.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, ident.Value, claims.Identifier)
	assert.Equal(t, string(ident.Kind), claims.IdentifierKind)
	assert.NotEmpty(t, claims.ID)

	mockResets.AssertExpectations(t)
	mockPermits.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

func TestResetService_VerifyOTP_Failures(t *testing.T) {
	ident := identifier.Identifier{Kind: identifier.KindEmail, Value: "alice@x.com"}

	tests := []struct {
		name          string
		code          string
		setupMock     func(*MockPasswordResetRepository)
		expectedError error
	}{
		{
			name: "no code issued",
			code: "123456",
			setupMock: func(m *MockPasswordResetRepository) {
				m.On("ConsumeCode", mock.Anything, ident.Value, "123456", mock.Anything).Return(false, nil)
				m.On("Find", mock.Anything, ident.Value).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidCode,
		},
		{
			name: "wrong code",
			code: "000000",
			setupMock: func(m *MockPasswordResetRepository) {
				m.On("ConsumeCode", mock.Anything, ident.Value, "000000", mock.Anything).Return(false, nil)
				m.On("Find", mock.Anything, ident.Value).Return(&model.PasswordReset{
					Identifier: ident.Value,
					Code:       "123456",
					ExpiresAt:  time.Now().Add(5 * time.Minute),
				}, nil)
			},
			expectedError: errors.ErrInvalidCode,
		},
		{
			name: "correct code past expiry",
			code: "123456",
			setupMock: func(m *MockPasswordResetRepository) {
				m.On("ConsumeCode", mock.Anything, ident.Value, "123456", mock.Anything).Return(false, nil)
				m.On("Find", mock.Anything, ident.Value).Return(&model.PasswordReset{
					Identifier: ident.Value,
					Code:       "123456",
					ExpiresAt:  time.Now().Add(-time.Minute),
				}, nil)
			},
			expectedError: errors.ErrCodeExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockResets := new(MockPasswordResetRepository)
			tt.setupMock(mockResets)

			service := NewResetService(new(MockUserRepository), mockResets, auth.NewResetTokenService("test-secret"), new(MockPermitStore), &recordingSender{}, &recordingSender{})

			token, err := service.VerifyOTP(context.Background(), ident, tt.code)
			assert.Empty(t, token)
			assert.Equal(t, tt.expectedError, err)

			mockResets.AssertExpectations(t)
		})
	}
}

func TestResetService_ResetPassword(t *testing.T) {
	ident := identifier.Identifier{Kind: identifier.KindMobile, Value: "+15551234567"}
	claims := &auth.ResetClaims{
		Identifier:     ident.Value,
		IdentifierKind: string(ident.Kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ID: "permit-id",
		},
	}

	t.Run("successful reset consumes the permit once", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPermits := new(MockPermitStore)

		mockPermits.On("Consume", mock.Anything, "permit-id").Return(true, nil).Once()
		var newHash string
		mockUsers.On("UpdatePassword", mock.Anything, ident, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				newHash = args.String(2)
			}).Return(nil)

		service := NewResetService(mockUsers, new(MockPasswordResetRepository), auth.NewResetTokenService("test-secret"), mockPermits, &recordingSender{}, &recordingSender{})

		err := service.ResetPassword(context.Background(), claims, "pw2pw2")
		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("pw2pw2")))

		mockUsers.AssertExpectations(t)
		mockPermits.AssertExpectations(t)
	})

	t.Run("missing permit is unauthorized", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockPermits := new(MockPermitStore)
		mockPermits.On("Consume", mock.Anything, "permit-id").Return(false, nil)

		service := NewResetService(mockUsers, new(MockPasswordResetRepository), auth.NewResetTokenService("test-secret"), mockPermits, &recordingSender{}, &recordingSender{})

		err := service.ResetPassword(context.Background(), claims, "pw2pw2")
		assert.Equal(t, errors.ErrUnauthorized, err)
		mockUsers.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
