package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/product_catalog/services/auth/internal/models"
)

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
)

type Repository interface {
	// CreateAccount returns ErrAccountExists when the email is taken.
	CreateAccount(ctx context.Context, acc *models.Account) error
	AccountByEmail(ctx context.Context, email string) (*models.Account, error)
}
