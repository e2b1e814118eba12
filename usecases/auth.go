package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance-server/entities"
	"finance-server/repositories"

	"golang.org/x/crypto/bcrypt"
)

// SummaryInvalidator drops cached per-user aggregates.
type SummaryInvalidator interface {
	Invalidate(userID uint)
}

type AuthUseCase struct {
	users   repositories.UserRepository
	tokens  *TokenIssuer
	summary SummaryInvalidator
	cost    int
}

func NewAuthUseCase(users repositories.UserRepository, tokens *TokenIssuer, summary SummaryInvalidator) *AuthUseCase {
	return &AuthUseCase{users: users, tokens: tokens, summary: summary, cost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
}

// Register creates a user with a bcrypt hash of the password.
func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*entities.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}

	exists, err := uc.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: username or email already exists", ErrConflict)
	}

	hash, err := uc.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: username or email already exists", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user when username and password match.
func (uc *AuthUseCase) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrAuth)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !uc.CheckPassword(user, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrAuth)
	}
	return user, nil
}

// Login authenticates and issues a bearer token with its expiry.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*entities.User, string, time.Time, error) {
	user, err := uc.Authenticate(ctx, username, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, expiresAt, err := uc.tokens.IssueToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// CheckPassword compares password against the stored bcrypt hash.
func (uc *AuthUseCase) CheckPassword(user *entities.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (uc *AuthUseCase) GetUser(ctx context.Context, id uint) (*entities.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (uc *AuthUseCase) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	user, err := uc.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// ResolveToken verifies a bearer token and loads the user it names.
func (uc *AuthUseCase) ResolveToken(ctx context.Context, raw string) (*entities.User, error) {
	id, err := uc.tokens.VerifyToken(raw)
	if err != nil {
		return nil, err
	}
	return uc.GetUser(ctx, id)
}

func (uc *AuthUseCase) SetPassword(ctx context.Context, id uint, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if _, err := uc.GetUser(ctx, id); err != nil {
		return err
	}
	hash, err := uc.hash(password)
	if err != nil {
		return err
	}
	return uc.users.UpdatePassword(ctx, id, hash)
}

// DeleteAccount removes the user and every owned transaction atomically
// after re-checking the password.
func (uc *AuthUseCase) DeleteAccount(ctx context.Context, id uint, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	user, err := uc.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if !uc.CheckPassword(user, password) {
		return fmt.Errorf("%w: incorrect password", ErrAuth)
	}
	if err := uc.users.DeleteWithTransactions(ctx, id); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return fmt.Errorf("delete account: %w", err)
	}
	if uc.summary != nil {
		uc.summary.Invalidate(id)
	}
	return nil
}

func (uc *AuthUseCase) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
