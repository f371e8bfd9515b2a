// Package accounts stores account identities: email plus password hash.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository is the credential store. Create returns common.ErrDuplicateKey
// when the email is taken; lookups return common.ErrorNotFound when absent.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
}
