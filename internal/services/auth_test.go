package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/otp-auth/internal/models"
	"github.com/sbilibin2017/otp-auth/internal/services"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestAuthService_Signup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	email := "alice@example.com"
	firstName := "Alice"
	lastName := "Smith"
	password := "password1"
	code := "042137"
	userID := uuid.New()

	tests := []struct {
		name      string
		mockSetup func(otp *services.MockOTPGenerator, writer *services.MockUserWriter, mailer *services.MockOTPMailer)
		wantErr   error
	}{
		{
			name: "successful signup",
			mockSetup: func(otp *services.MockOTPGenerator, writer *services.MockUserWriter, mailer *services.MockOTPMailer) {
				otp.EXPECT().Generate().Return(code, nil)
				writer.EXPECT().
					UpsertPending(gomock.Any(), email, firstName, lastName, gomock.Any(), code).
					Return(userID, nil)
				mailer.EXPECT().SendOTP(gomock.Any(), email, code, firstName).Return(nil)
			},
			wantErr: nil,
		},
		{
			name: "otp generation error",
			mockSetup: func(otp *services.MockOTPGenerator, writer *services.MockUserWriter, mailer *services.MockOTPMailer) {
				otp.EXPECT().Generate().Return("", errors.New("entropy error"))
			},
			wantErr: errors.New("entropy error"),
		},
		{
			name: "writer error",
			mockSetup: func(otp *services.MockOTPGenerator, writer *services.MockUserWriter, mailer *services.MockOTPMailer) {
				otp.EXPECT().Generate().Return(code, nil)
				writer.EXPECT().
					UpsertPending(gomock.Any(), email, firstName, lastName, gomock.Any(), code).
					Return(uuid.Nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
		{
			name: "dispatch failure surfaces",
			mockSetup: func(otp *services.MockOTPGenerator, writer *services.MockUserWriter, mailer *services.MockOTPMailer) {
				otp.EXPECT().Generate().Return(code, nil)
				writer.EXPECT().
					UpsertPending(gomock.Any(), email, firstName, lastName, gomock.Any(), code).
					Return(userID, nil)
				mailer.EXPECT().SendOTP(gomock.Any(), email, code, firstName).Return(errors.New("smtp error"))
			},
			wantErr: errors.New("smtp error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockJWT := services.NewMockJWTGenerator(ctrl)
			mockOTP := services.NewMockOTPGenerator(ctrl)
			mockMailer := services.NewMockOTPMailer(ctrl)

			tt.mockSetup(mockOTP, mockWriter, mockMailer)

			svc := services.NewAuthService(mockReader, mockWriter, mockJWT, mockOTP, mockMailer, nil, 0)

			err := svc.Signup(context.Background(), email, firstName, lastName, password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_Signup_HashesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)
	mockOTP := services.NewMockOTPGenerator(ctrl)
	mockMailer := services.NewMockOTPMailer(ctrl)

	password := "password1"
	var storedHash string

	mockOTP.EXPECT().Generate().Return("123456", nil)
	mockWriter.EXPECT().
		UpsertPending(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, _, passwordHash, _ string) (uuid.UUID, error) {
			storedHash = passwordHash
			return uuid.New(), nil
		})
	mockMailer.EXPECT().SendOTP(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, mockOTP, mockMailer, nil, 0)

	err := svc.Signup(context.Background(), "a@x.com", "A", "B", password)
	assert.NoError(t, err)

	// The plaintext never reaches the store; the stored hash matches it.
	assert.NotEqual(t, password, storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)))
}

func TestAuthService_VerifyOTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	email := "alice@example.com"
	code := "042137"
	userID := uuid.New()

	pendingUser := func() *models.UserDB {
		return &models.UserDB{
			UserID:    userID,
			Email:     email,
			OTP:       strPtr(code),
			Verified:  false,
			UpdatedAt: time.Now(),
		}
	}

	tests := []struct {
		name      string
		code      string
		otpTTL    time.Duration
		mockSetup func(reader *services.MockUserReader, writer *services.MockUserWriter, jwt *services.MockJWTGenerator)
		wantToken string
		wantErr   error
	}{
		{
			name: "successful verification",
			code: code,
			mockSetup: func(reader *services.MockUserReader, writer *services.MockUserWriter, jwt *services.MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(pendingUser(), nil)
				writer.EXPECT().MarkVerified(gomock.Any(), userID).Return(nil)
				jwt.EXPECT().Generate(gomock.Any(), userID, email).Return("token123", nil)
			},
			wantToken: "token123",
		},
		{
			name: "user does not exist",
			code: code,
			mockSetup: func(reader *services.MockUserReader, writer *services.MockUserWriter, jwt *services.MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(nil, nil)
			},
			wantErr: services.ErrUserDoesNotExist,
		},
		{
			name: "reader error",
			code: code,
			mockSetup: func(reader *services.MockUserReader, writer *services.MockUserWriter, jwt *services.MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
		{
			name: "wrong code leaves record untouched",
			code: "999999",
			mockSetup: func(reader *services.MockUserReader, writer *services.MockUserWriter, jwt *services.MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(pendingUser(), nil)
			},
			wantErr: services.ErrOTPMismatch,
		},
		{
			name: "already verified rejects as mismatch",
			code: code,
			mockSetup: func(reader *services.MockUserReader, writer *services.MockUserWriter, jwt *services.MockJWTGenerator) {
				verified := &models.UserDB{UserID: userID, Email: email, OTP: nil, Verified: true, UpdatedAt: time.Now()}
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(verified, nil)
			},
			wantErr: services.ErrOTPMismatch,
		},
		{
			name:   "expired code with ttl configured",
			code:   code,
			otpTTL: time.Minute,
			mockSetup: func(reader *services.MockUserReader, writer *services.MockUserWriter, jwt *services.MockJWTGenerator) {
				stale := pendingUser()
				stale.UpdatedAt = time.Now().Add(-time.Hour)
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(stale, nil)
			},
			wantErr: services.ErrOTPExpired,
		},
		{
			name: "mark verified error",
			code: code,
			mockSetup: func(reader *services.MockUserReader, writer *services.MockUserWriter, jwt *services.MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(pendingUser(), nil)
				writer.EXPECT().MarkVerified(gomock.Any(), userID).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
		{
			name: "jwt error",
			code: code,
			mockSetup: func(reader *services.MockUserReader, writer *services.MockUserWriter, jwt *services.MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(pendingUser(), nil)
				writer.EXPECT().MarkVerified(gomock.Any(), userID).Return(nil)
				jwt.EXPECT().Generate(gomock.Any(), userID, email).Return("", errors.New("sign error"))
			},
			wantErr: errors.New("sign error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockJWT := services.NewMockJWTGenerator(ctrl)
			mockOTP := services.NewMockOTPGenerator(ctrl)
			mockMailer := services.NewMockOTPMailer(ctrl)

			tt.mockSetup(mockReader, mockWriter, mockJWT)

			svc := services.NewAuthService(mockReader, mockWriter, mockJWT, mockOTP, mockMailer, nil, tt.otpTTL)

			token, err := svc.VerifyOTP(context.Background(), email, tt.code)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	email := "alice@example.com"
	password := "password1"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	hash := string(hashed)
	userID := uuid.New()

	verifiedUser := &models.UserDB{
		UserID:       userID,
		Email:        email,
		PasswordHash: &hash,
		Verified:     true,
	}

	tests := []struct {
		name      string
		password  string
		mockSetup func(reader *services.MockUserReader, jwt *services.MockJWTGenerator)
		wantToken string
		wantErr   error
	}{
		{
			name:     "successful login",
			password: password,
			mockSetup: func(reader *services.MockUserReader, jwt *services.MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(verifiedUser, nil)
				jwt.EXPECT().Generate(gomock.Any(), userID, email).Return("token123", nil)
			},
			wantToken: "token123",
		},
		{
			name:     "user does not exist",
			password: password,
			mockSetup: func(reader *services.MockUserReader, jwt *services.MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(nil, nil)
			},
			wantErr: services.ErrUserDoesNotExist,
		},
		{
			name:     "unverified rejected even with correct password",
			password: password,
			mockSetup: func(reader *services.MockUserReader, jwt *services.MockJWTGenerator) {
				unverified := &models.UserDB{UserID: userID, Email: email, PasswordHash: &hash, Verified: false}
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(unverified, nil)
			},
			wantErr: services.ErrUserNotVerified,
		},
		{
			name:     "legacy row without password",
			password: password,
			mockSetup: func(reader *services.MockUserReader, jwt *services.MockJWTGenerator) {
				legacy := &models.UserDB{UserID: userID, Email: email, PasswordHash: nil, Verified: true}
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(legacy, nil)
			},
			wantErr: services.ErrNoPassword,
		},
		{
			name:     "wrong password",
			password: "wrongpassword",
			mockSetup: func(reader *services.MockUserReader, jwt *services.MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(verifiedUser, nil)
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "reader error",
			password: password,
			mockSetup: func(reader *services.MockUserReader, jwt *services.MockJWTGenerator) {
				reader.EXPECT().GetByEmail(gomock.Any(), email).Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockJWT := services.NewMockJWTGenerator(ctrl)
			mockOTP := services.NewMockOTPGenerator(ctrl)
			mockMailer := services.NewMockOTPMailer(ctrl)

			tt.mockSetup(mockReader, mockJWT)

			svc := services.NewAuthService(mockReader, mockWriter, mockJWT, mockOTP, mockMailer, nil, 0)

			token, err := svc.Login(context.Background(), email, tt.password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

func TestAuthService_Login_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	email := "alice@example.com"
	password := "password1"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	hash := string(hashed)
	userID := uuid.New()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)
	mockOTP := services.NewMockOTPGenerator(ctrl)
	mockMailer := services.NewMockOTPMailer(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	mockReader.EXPECT().GetByEmail(gomock.Any(), email).
		Return(&models.UserDB{UserID: userID, Email: email, PasswordHash: &hash, Verified: true}, nil)
	mockJWT.EXPECT().Generate(gomock.Any(), userID, email).Return("token123", nil)
	mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, mockOTP, mockMailer, mockKafka, 0)

	token, err := svc.Login(context.Background(), email, password)
	assert.NoError(t, err)
	assert.Equal(t, "token123", token)
}

func TestAuthService_Login_EventFailureIsNotSurfaced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	email := "alice@example.com"
	password := "password1"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	hash := string(hashed)
	userID := uuid.New()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)
	mockJWT := services.NewMockJWTGenerator(ctrl)
	mockOTP := services.NewMockOTPGenerator(ctrl)
	mockMailer := services.NewMockOTPMailer(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	mockReader.EXPECT().GetByEmail(gomock.Any(), email).
		Return(&models.UserDB{UserID: userID, Email: email, PasswordHash: &hash, Verified: true}, nil)
	mockJWT.EXPECT().Generate(gomock.Any(), userID, email).Return("token123", nil)
	mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	svc := services.NewAuthService(mockReader, mockWriter, mockJWT, mockOTP, mockMailer, mockKafka, 0)

	token, err := svc.Login(context.Background(), email, password)
	assert.NoError(t, err)
	assert.Equal(t, "token123", token)
}

func TestAuthService_GetUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	user := &models.UserDB{UserID: userID, Email: "alice@example.com", Verified: true}

	tests := []struct {
		name      string
		mockSetup func(reader *services.MockUserReader)
		wantUser  *models.UserDB
		wantErr   error
	}{
		{
			name: "found",
			mockSetup: func(reader *services.MockUserReader) {
				reader.EXPECT().GetByID(gomock.Any(), userID).Return(user, nil)
			},
			wantUser: user,
		},
		{
			name: "missing",
			mockSetup: func(reader *services.MockUserReader) {
				reader.EXPECT().GetByID(gomock.Any(), userID).Return(nil, nil)
			},
			wantErr: services.ErrUserDoesNotExist,
		},
		{
			name: "reader error",
			mockSetup: func(reader *services.MockUserReader) {
				reader.EXPECT().GetByID(gomock.Any(), userID).Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockJWT := services.NewMockJWTGenerator(ctrl)
			mockOTP := services.NewMockOTPGenerator(ctrl)
			mockMailer := services.NewMockOTPMailer(ctrl)

			tt.mockSetup(mockReader)

			svc := services.NewAuthService(mockReader, mockWriter, mockJWT, mockOTP, mockMailer, nil, 0)

			got, err := svc.GetUser(context.Background(), userID)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUser, got)
			}
		})
	}
}
