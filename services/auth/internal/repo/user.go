package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/product_catalog/pkg/db"
	"github.com/Skotchmaster/product_catalog/services/auth/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) CreateAccount(ctx context.Context, acc *models.Account) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", acc.Email).FirstOrCreate(acc)
	if tx.Error != nil {
		if pkgdb.IsUniqueViolation(tx.Error) {
			return ErrAccountExists
		}
		return fmt.Errorf("create account: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrAccountExists
	}
	return nil
}

func (r *GormRepo) AccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &acc, nil
}
