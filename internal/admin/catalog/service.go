package catalog

import (
	"context"
	"errors"

	"finitefield.org/catalog-admin/internal/admin/productform"
)

var (
	// ErrProductNotFound indicates the backend has no such product.
	ErrProductNotFound = errors.New("catalog: product not found")
	// ErrNotConfigured indicates the backend integration is disabled.
	ErrNotConfigured = errors.New("catalog: backend not configured")
)

// Service loads the sub-forms a product already has so the editor can be seeded.
type Service interface {
	Characteristics(ctx context.Context, token, productID string) (productform.Seed, error)
}

// Submission is one applied sub-form on its way to the backend.
type Submission struct {
	ProductID string
	FormType  productform.FormType
	EntryID   int64
	Fields    productform.Fields
	Token     string
}

// Result is the backend's answer to a submission.
type Result struct {
	Status int
	Body   []byte
}

// Submitter transmits a submission.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (Result, error)
}
