package ports

import (
	"context"

	"github.com/fanmerch/storefront/internal/core/domain"
)

// Catalog resolves a product id into a product reference.
type Catalog interface {
	Resolve(ctx context.Context, productID string) (domain.Product, error)
}
