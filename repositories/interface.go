package repositories

import (
	"context"
	"finance-server/entities"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByResetToken(ctx context.Context, tokenHash string) (*entities.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	SaveResetToken(ctx context.Context, id uint, tokenHash string, expiresAt time.Time) error
	// ConsumeResetToken swaps the password hash and clears the reset fields
	// only if tokenHash is still stored and unexpired at now. It reports
	// whether a row was updated.
	ConsumeResetToken(ctx context.Context, id uint, tokenHash, passwordHash string, now time.Time) (bool, error)
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
	// DeleteWithTransactions removes the user's transactions and then the
	// user in one database transaction.
	DeleteWithTransactions(ctx context.Context, id uint) error
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	GetByIDForUser(ctx context.Context, id, userID uint) (*entities.Transaction, error)
	ListByUser(ctx context.Context, userID uint) ([]entities.Transaction, error)
	Update(ctx context.Context, tx *entities.Transaction) error
	DeleteForUser(ctx context.Context, id, userID uint) (bool, error)
}
