package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/otp-auth/internal/logger"
	"github.com/sbilibin2017/otp-auth/internal/models"
	"github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"
)

// Error variables
var (
	ErrUserDoesNotExist   = errors.New("user does not exist")
	ErrUserNotVerified    = errors.New("email not verified")
	ErrNoPassword         = errors.New("user has no password set")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOTPMismatch        = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP expired")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	UpsertPending(ctx context.Context, email, firstName, lastName, passwordHash, otp string) (uuid.UUID, error)
	MarkVerified(ctx context.Context, userID uuid.UUID) error
}

// JWTGenerator defines an interface for generating session tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, email string) (string, error)
}

// OTPGenerator defines an interface for generating one-time passcodes.
type OTPGenerator interface {
	Generate() (string, error)
}

// OTPMailer defines an interface for dispatching a passcode by email.
type OTPMailer interface {
	SendOTP(ctx context.Context, email, otp, firstName string) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// AuthEvent is the audit record published for signup, verification and login.
type AuthEvent struct {
	EventID   string `json:"event_id"`
	Timestamp int64  `json:"timestamp"`
	Operation string `json:"operation"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
}

// AuthService handles signup, OTP verification and login.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	jwt         JWTGenerator
	otp         OTPGenerator
	mailer      OTPMailer
	kafkaWriter KafkaWriter
	otpTTL      time.Duration // 0 means codes never expire
}

// NewAuthService creates a new AuthService instance. kafkaWriter may be nil,
// in which case audit events are skipped. otpTTL of zero disables expiry.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	jwt JWTGenerator,
	otp OTPGenerator,
	mailer OTPMailer,
	kafkaWriter KafkaWriter,
	otpTTL time.Duration,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		jwt:         jwt,
		otp:         otp,
		mailer:      mailer,
		kafkaWriter: kafkaWriter,
		otpTTL:      otpTTL,
	}
}

// publishEvent publishes an audit event to Kafka. Failures are logged and
// never surfaced; the request outcome does not depend on the event stream.
func (svc *AuthService) publishEvent(ctx context.Context, operation string, userID uuid.UUID, email string) {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "operation", operation)
		return
	}

	event := AuthEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		Operation: operation,
		UserID:    userID.String(),
		Email:     email,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal auth event for Kafka", "operation", operation, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish auth event to Kafka", "operation", operation, "error", err)
	} else {
		logger.Log.Infow("Auth event published to Kafka", "operation", operation, "user_id", event.UserID)
	}
}

// Signup creates or refreshes a pending user and dispatches a verification
// code to the given email. Repeating a signup before verification overwrites
// the pending name, password and code without creating a second record.
func (svc *AuthService) Signup(ctx context.Context, email, firstName, lastName, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	code, err := svc.otp.Generate()
	if err != nil {
		logger.Log.Errorw("failed to generate OTP", "err", err)
		return err
	}

	userID, err := svc.writer.UpsertPending(ctx, email, firstName, lastName, string(hashedPassword), code)
	if err != nil {
		logger.Log.Errorw("failed to upsert pending user", "email", email, "err", err)
		return err
	}

	if err := svc.mailer.SendOTP(ctx, email, code, firstName); err != nil {
		logger.Log.Errorw("failed to dispatch OTP", "email", email, "err", err)
		return err
	}

	svc.publishEvent(ctx, "user_registered", userID, email)

	return nil
}

// VerifyOTP transitions a pending user to verified when the submitted code
// matches the outstanding one, and mints a session token so the caller is
// logged in right after verification. The transition is terminal: once
// verified the stored code is NULL and any re-submission fails with a
// mismatch. Code format is the caller's responsibility.
func (svc *AuthService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "email", email, "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Infow("verification for unknown email", "email", email)
		return "", ErrUserDoesNotExist
	}

	if svc.otpTTL > 0 && time.Since(user.UpdatedAt) > svc.otpTTL {
		logger.Log.Infow("OTP expired", "email", email)
		return "", ErrOTPExpired
	}

	if user.OTP == nil || *user.OTP != code {
		logger.Log.Infow("OTP mismatch", "email", email)
		return "", ErrOTPMismatch
	}

	if err := svc.writer.MarkVerified(ctx, user.UserID); err != nil {
		logger.Log.Errorw("failed to mark user verified", "email", email, "err", err)
		return "", err
	}

	token, err := svc.jwt.Generate(ctx, user.UserID, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	svc.publishEvent(ctx, "email_verified", user.UserID, user.Email)

	return token, nil
}

// Login authenticates a verified user and returns a session token.
func (svc *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "email", email, "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Infow("login for unknown email", "email", email)
		return "", ErrUserDoesNotExist
	}

	if !user.Verified {
		logger.Log.Infow("login before verification", "email", email)
		return "", ErrUserNotVerified
	}

	if user.PasswordHash == nil {
		logger.Log.Infow("login for passwordless legacy user", "email", email)
		return "", ErrNoPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Infow("invalid credentials", "email", email)
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.UserID, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	svc.publishEvent(ctx, "user_logged_in", user.UserID, user.Email)

	return token, nil
}

// GetUser returns the user with the given id, for authenticated reads.
func (svc *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user by id", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}
	return user, nil
}
