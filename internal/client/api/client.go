package api

import (
	"context"

	"github.com/dmitrijs2005/docvault/internal/client/models"
)

// Token is the answer of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Registration is the answer of a successful registration.
type Registration struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// Client is the full DocVault API surface. Every method except Login and
// Register needs the bearer token of the current session.
type Client interface {
	Login(ctx context.Context, email, password string) (Token, error)
	Register(ctx context.Context, email, password string) (Registration, error)
	Me(ctx context.Context, token string) (models.User, error)

	ListDocuments(ctx context.Context, token string) ([]models.Document, error)
	GetDocument(ctx context.Context, token string, id int64) (models.Document, error)
	CreateDocument(ctx context.Context, token string, in models.DocumentInput) (models.Document, error)
	UpdateDocument(ctx context.Context, token string, id int64, in models.DocumentInput) (models.Document, error)
	DeleteDocument(ctx context.Context, token string, id int64) error

	ListCategories(ctx context.Context, token string) ([]models.Category, error)
	CreateCategory(ctx context.Context, token string, in models.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, token string, id int64, in models.CategoryInput) (models.Category, error)
	DeleteCategory(ctx context.Context, token string, id int64) error

	CreateSubcategory(ctx context.Context, token string, in models.SubcategoryInput) (models.Subcategory, error)
	UpdateSubcategory(ctx context.Context, token string, id int64, in models.SubcategoryInput) (models.Subcategory, error)
	DeleteSubcategory(ctx context.Context, token string, id int64) error
}
