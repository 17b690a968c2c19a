package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/recipebox/auth-service/internal/logger"
	"github.com/recipebox/auth-service/internal/mailer"
	"github.com/recipebox/auth-service/internal/models"
	pwd "github.com/recipebox/auth-service/internal/password"
	"github.com/recipebox/auth-service/internal/repositories"
	"github.com/recipebox/auth-service/internal/token"
)

// Error variables
var (
	ErrUserAlreadyExists     = errors.New("username or email already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrEmailNotVerified      = errors.New("email is not verified")
	ErrUserNotFound          = errors.New("user not found")
	ErrAlreadyVerified       = errors.New("email is already verified")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired verification token")
	ErrInvalidTokenOrEmail   = errors.New("invalid token or email")
	ErrTokenExpired          = errors.New("reset token has expired")
)

// Token lifetimes and the mail send deadline.
const (
	VerificationTokenTTL = 24 * time.Hour
	ResetTokenTTL        = time.Hour
	mailSendTimeout      = 30 * time.Second
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error)
	GetByVerificationToken(ctx context.Context, email, token string) (*models.UserDB, error)
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, passwordHash, verificationToken string, tokenExpiry time.Time) (int64, error)
	SetVerificationToken(ctx context.Context, userID int64, token string, expiry time.Time) error
	MarkVerified(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// ResetReader defines read-only operations for password reset requests.
type ResetReader interface {
	GetByUserAndToken(ctx context.Context, userID int64, token string) (*models.PasswordResetDB, error)
}

// ResetWriter defines write operations for password reset requests.
type ResetWriter interface {
	Save(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

// JWTGenerator defines an interface for generating session tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID int64, username, email string) (string, error)
}

// AuthService handles registration, email verification, login and password
// reset.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	resetReader ResetReader
	resetWriter ResetWriter
	jwt         JWTGenerator
	mailer      mailer.Mailer
	baseURL     string
	wg          sync.WaitGroup

	// NowFunc is used to get the current time.
	// Exposed for testing purposes.
	NowFunc func() time.Time
}

// NewAuthService creates a new AuthService instance. baseURL is the public
// address embedded in emailed links.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	resetReader ResetReader,
	resetWriter ResetWriter,
	jwt JWTGenerator,
	m mailer.Mailer,
	baseURL string,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		resetReader: resetReader,
		resetWriter: resetWriter,
		jwt:         jwt,
		mailer:      m,
		baseURL:     baseURL,
		NowFunc:     time.Now,
	}
}

// Wait blocks until all in-flight email sends have finished. Used during
// shutdown.
func (svc *AuthService) Wait() {
	svc.wg.Wait()
}

// sendAsync delivers an email without blocking the caller. Failures are
// logged, never propagated: email delivery must not fail the enclosing
// request.
func (svc *AuthService) sendAsync(to, subject, htmlBody string) {
	svc.wg.Add(1)
	go func() {
		defer svc.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
		defer cancel()

		if err := svc.mailer.Send(ctx, to, subject, htmlBody); err != nil {
			logger.Log.Errorw("failed to send email", "to", to, "subject", subject, "err", err)
		}
	}()
}

// Register creates a new unverified user and emails a verification link.
// Re-registering an existing unverified user rotates its verification token
// and resends the email instead of creating a duplicate row. Returns the id
// of the (new or existing) user.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (int64, error) {
	if err := validateRegistration(username, email, password); err != nil {
		return 0, err
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return 0, err
	}
	if user != nil {
		if user.IsVerified {
			logger.Log.Infow("user already exists", "username", username, "email", email)
			return 0, ErrUserAlreadyExists
		}
		// Unverified duplicate: rotate the token and resend.
		if err := svc.rotateVerificationToken(ctx, user); err != nil {
			return 0, err
		}
		return user.ID, nil
	}

	hash, err := pwd.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return 0, err
	}

	verifyToken, err := token.Generate()
	if err != nil {
		logger.Log.Errorw("failed to generate verification token", "err", err)
		return 0, err
	}
	expiry := svc.NowFunc().Add(VerificationTokenTTL)

	id, err := svc.writer.Save(ctx, username, email, hash, verifyToken, expiry)
	if err != nil {
		// The existence check above races with concurrent registrations;
		// the unique constraint is the safety net.
		if errors.Is(err, repositories.ErrUniqueViolation) {
			return 0, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return 0, err
	}

	subject, body := mailer.VerificationEmail(svc.baseURL, email, verifyToken)
	svc.sendAsync(email, subject, body)

	return id, nil
}

// rotateVerificationToken overwrites the stored verification token with a
// fresh one and resends the verification email.
func (svc *AuthService) rotateVerificationToken(ctx context.Context, user *models.UserDB) error {
	verifyToken, err := token.Generate()
	if err != nil {
		logger.Log.Errorw("failed to generate verification token", "err", err)
		return err
	}
	expiry := svc.NowFunc().Add(VerificationTokenTTL)

	if err := svc.writer.SetVerificationToken(ctx, user.ID, verifyToken, expiry); err != nil {
		logger.Log.Errorw("failed to set verification token", "user_id", user.ID, "err", err)
		return err
	}

	subject, body := mailer.VerificationEmail(svc.baseURL, user.Email, verifyToken)
	svc.sendAsync(user.Email, subject, body)

	return nil
}

// VerifyEmail flips the user matching (email, token) to verified and clears
// the token fields. A second call with the same token fails because the token
// was cleared.
func (svc *AuthService) VerifyEmail(ctx context.Context, verifyToken, email string) error {
	user, err := svc.reader.GetByVerificationToken(ctx, email, verifyToken)
	if err != nil {
		logger.Log.Errorw("failed to look up verification token", "err", err)
		return err
	}
	if user == nil {
		return ErrInvalidOrExpiredToken
	}

	if err := svc.writer.MarkVerified(ctx, user.ID); err != nil {
		logger.Log.Errorw("failed to mark user verified", "user_id", user.ID, "err", err)
		return err
	}

	return nil
}

// ResendVerification rotates the verification token of an unverified user and
// resends the email.
func (svc *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, nil, &email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	return svc.rotateVerificationToken(ctx, user)
}

// Login authenticates a verified user and returns a session token plus the
// public user fields. Unknown usernames and wrong passwords produce the same
// error to resist account enumeration; an unverified account is reported
// distinctly, which is a deliberate product decision.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, models.UserPublic, error) {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", models.UserPublic{}, err
	}
	if user == nil {
		logger.Log.Infow("login failed, user does not exist", "username", username)
		return "", models.UserPublic{}, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return "", models.UserPublic{}, ErrEmailNotVerified
	}

	if !pwd.Check(password, user.PasswordHash) {
		logger.Log.Infow("login failed, wrong password", "username", username)
		return "", models.UserPublic{}, ErrInvalidCredentials
	}

	sessionToken, err := svc.jwt.Generate(ctx, user.ID, user.Username, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate session token", "err", err)
		return "", models.UserPublic{}, err
	}

	return sessionToken, user.Public(), nil
}

// ForgotPassword creates a password reset request and emails a reset link.
// It succeeds whether or not the email belongs to a user; the handler returns
// the same message either way to resist account enumeration.
func (svc *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, nil, &email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		logger.Log.Infow("password reset requested for unknown email")
		return nil
	}

	resetToken, err := token.Generate()
	if err != nil {
		logger.Log.Errorw("failed to generate reset token", "err", err)
		return err
	}
	expiresAt := svc.NowFunc().Add(ResetTokenTTL)

	if err := svc.resetWriter.Save(ctx, user.ID, resetToken, expiresAt); err != nil {
		logger.Log.Errorw("failed to save reset request", "user_id", user.ID, "err", err)
		return err
	}

	subject, body := mailer.PasswordResetEmail(svc.baseURL, user.Email, resetToken)
	svc.sendAsync(user.Email, subject, body)

	return nil
}

// ResetPassword consumes a reset request and overwrites the user's password.
// The request is deleted on success so the token cannot be replayed; an
// expired request is left in place and only reported as expired.
func (svc *AuthService) ResetPassword(ctx context.Context, email, resetToken, newPassword string) error {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, nil, &email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		return ErrInvalidTokenOrEmail
	}

	reset, err := svc.resetReader.GetByUserAndToken(ctx, user.ID, resetToken)
	if err != nil {
		logger.Log.Errorw("failed to get reset request", "user_id", user.ID, "err", err)
		return err
	}
	if reset == nil {
		return ErrInvalidTokenOrEmail
	}

	if !svc.NowFunc().Before(reset.ExpiresAt) {
		return ErrTokenExpired
	}

	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	hash, err := pwd.Hash(newPassword)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.UpdatePassword(ctx, user.ID, hash); err != nil {
		logger.Log.Errorw("failed to update password", "user_id", user.ID, "err", err)
		return err
	}

	if err := svc.resetWriter.Delete(ctx, reset.ID); err != nil {
		logger.Log.Errorw("failed to delete reset request", "reset_id", reset.ID, "err", err)
		return err
	}

	subject, body := mailer.PasswordChangedEmail()
	svc.sendAsync(user.Email, subject, body)

	return nil
}

// GetProfile returns the public fields of the user with the given id.
func (svc *AuthService) GetProfile(ctx context.Context, id int64) (models.UserPublic, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", id, "err", err)
		return models.UserPublic{}, err
	}
	if user == nil {
		return models.UserPublic{}, ErrUserNotFound
	}

	return user.Public(), nil
}
