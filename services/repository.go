package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
)

// AccountRepository persists one kind of account. Lookups of unknown or
// malformed ids fail with errs.ErrNotFound; inserting or updating to an email
// that is already stored fails with errs.ErrDuplicateEmail.
type AccountRepository interface {
	Insert(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindAll(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, id string, changes models.AccountChanges) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}

// BlogRepository persists blog posts. Every mutation of likes, views and
// comments must be a single atomic document update.
type BlogRepository interface {
	Insert(ctx context.Context, post *models.BlogPost) error
	// FindAll returns every post, newest first.
	FindAll(ctx context.Context) ([]models.BlogPost, error)
	FindByID(ctx context.Context, id string) (*models.BlogPost, error)
	// IncrementViews adds one view and returns the post after the increment.
	IncrementViews(ctx context.Context, id string) (*models.BlogPost, error)
	// ToggleLike adds userID to the like set when absent and removes it
	// otherwise, in one update.
	ToggleLike(ctx context.Context, id string, userID primitive.ObjectID) (models.LikeResult, error)
	// Update sets only the fields present in patch.
	Update(ctx context.Context, id string, patch models.BlogPatch) (*models.BlogPost, error)
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, id string, comment models.Comment) error
}
