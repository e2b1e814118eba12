package repositories

import (
	"context"
	"finance-server/db"
	"finance-server/entities"
)

type transactionPgRepository struct {
	db db.Database
}

func NewTransactionPgRepository(database db.Database) TransactionRepository {
	return &transactionPgRepository{db: database}
}

func (r *transactionPgRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	return r.db.GetDB().WithContext(ctx).Create(tx).Error
}

// GetByIDForUser only finds transactions owned by userID, so a foreign id
// is indistinguishable from a missing one.
func (r *transactionPgRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*entities.Transaction, error) {
	var tx entities.Transaction
	err := r.db.GetDB().WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionPgRepository) ListByUser(ctx context.Context, userID uint) ([]entities.Transaction, error) {
	var txs []entities.Transaction
	err := r.db.GetDB().WithContext(ctx).Where("user_id = ?", userID).
		Order("date IS NULL").
		Order("date DESC").
		Order("id DESC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionPgRepository) Update(ctx context.Context, tx *entities.Transaction) error {
	return r.db.GetDB().WithContext(ctx).Save(tx).Error
}

func (r *transactionPgRepository) DeleteForUser(ctx context.Context, id, userID uint) (bool, error) {
	res := r.db.GetDB().WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Transaction{})
	return res.RowsAffected == 1, res.Error
}
