package repositories

import (
	"context"
	"finance-server/db"
	"finance-server/entities"
	"time"

	"gorm.io/gorm"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(ctx context.Context, user *entities.User) error {
	return r.db.GetDB().WithContext(ctx).Create(user).Error
}

func (r *userPgRepository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) GetByResetToken(ctx context.Context, tokenHash string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).Where("reset_token = ?", tokenHash).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userPgRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.GetDB().WithContext(ctx).Model(&entities.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *userPgRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.GetDB().WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *userPgRepository) SaveResetToken(ctx context.Context, id uint, tokenHash string, expiresAt time.Time) error {
	return r.db.GetDB().WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token":            tokenHash,
			"reset_token_expiration": expiresAt,
		}).Error
}

func (r *userPgRepository) ConsumeResetToken(ctx context.Context, id uint, tokenHash, passwordHash string, now time.Time) (bool, error) {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.User{}).
		Where("id = ? AND reset_token = ? AND reset_token_expiration > ?", id, tokenHash, now).
		Updates(map[string]interface{}{
			"password_hash":          passwordHash,
			"reset_token":            gorm.Expr("NULL"),
			"reset_token_expiration": gorm.Expr("NULL"),
		})
	return res.RowsAffected == 1, res.Error
}

func (r *userPgRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.User{}).
		Where("reset_token_expiration IS NOT NULL AND reset_token_expiration <= ?", now).
		Updates(map[string]interface{}{
			"reset_token":            gorm.Expr("NULL"),
			"reset_token_expiration": gorm.Expr("NULL"),
		})
	return res.RowsAffected, res.Error
}

func (r *userPgRepository) DeleteWithTransactions(ctx context.Context, id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)
		if err := tx.Where("user_id = ?", id).Delete(&entities.Transaction{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
