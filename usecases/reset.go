package usecases

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"finance-server/repositories"

	"golang.org/x/crypto/bcrypt"
)

// Mailer delivers password reset links.
type Mailer interface {
	Configured() bool
	SendPasswordReset(ctx context.Context, to, username, resetLink string) error
}

type PasswordResetUseCase struct {
	users         repositories.UserRepository
	mailer        Mailer
	defaultOrigin string
	ttl           time.Duration
	now           func() time.Time
}

func NewPasswordResetUseCase(users repositories.UserRepository, mailer Mailer, defaultOrigin string, ttl time.Duration) *PasswordResetUseCase {
	return &PasswordResetUseCase{
		users:         users,
		mailer:        mailer,
		defaultOrigin: defaultOrigin,
		ttl:           ttl,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// RequestReset stores a fresh single-use token for the account behind email
// and mails a link to it.
func (uc *PasswordResetUseCase) RequestReset(ctx context.Context, email, frontendOrigin string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: no account with that email", ErrNotFound)
		}
		return fmt.Errorf("find user: %w", err)
	}
	if uc.mailer == nil || !uc.mailer.Configured() {
		return fmt.Errorf("%w: email service is not configured", ErrConfig)
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	expires := uc.now().Add(uc.ttl)
	if err := uc.users.SaveResetToken(ctx, user.ID, hashResetToken(token), expires); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", uc.ResolveOrigin(frontendOrigin), token)
	if err := uc.mailer.SendPasswordReset(ctx, user.Email, user.Username, link); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	log.Printf("password reset email sent to user %d", user.ID)
	return nil
}

// ExchangeReset sets a new password for the holder of token and spends it.
func (uc *PasswordResetUseCase) ExchangeReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("%w: invalid or expired token", ErrAuth)
	}
	digest := hashResetToken(token)
	user, err := uc.users.GetByResetToken(ctx, digest)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: invalid or expired token", ErrAuth)
		}
		return fmt.Errorf("find reset token: %w", err)
	}
	now := uc.now()
	if !user.HasPendingReset(now) {
		return fmt.Errorf("%w: invalid or expired token", ErrAuth)
	}
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	// conditional update so two concurrent exchanges cannot both win
	ok, err := uc.users.ConsumeResetToken(ctx, user.ID, digest, string(hash), now)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: invalid or expired token", ErrAuth)
	}
	return nil
}

// SweepExpired clears reset fields whose expiration has passed.
func (uc *PasswordResetUseCase) SweepExpired(ctx context.Context) (int64, error) {
	return uc.users.ClearExpiredResetTokens(ctx, uc.now())
}

// ResolveOrigin picks the origin used to build reset links. Only local
// development origins and https origins are trusted; anything else falls
// back to the configured frontend URL.
func (uc *PasswordResetUseCase) ResolveOrigin(requested string) string {
	origin := strings.TrimSpace(requested)
	if origin != "" && (strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1") ||
		strings.HasPrefix(origin, "https://")) {
		return strings.TrimRight(origin, "/")
	}
	return strings.TrimRight(uc.defaultOrigin, "/")
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
