package service

import (
	"context"
	"hash/fnv"

	"github.com/fanmerch/storefront/internal/core/domain"
)

const (
	catalogBasePrice   = 500
	catalogPriceSpread = 1000
	catalogImage       = "/api/placeholder/300/300"
	catalogCategory    = "apparels"
)

// SyntheticCatalog builds product references on demand from the product id.
// The same id always yields the same product.
type SyntheticCatalog struct{}

func NewSyntheticCatalog() *SyntheticCatalog {
	return &SyntheticCatalog{}
}

func (SyntheticCatalog) Resolve(_ context.Context, productID string) (domain.Product, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(productID))
	sum := h.Sum32()

	brand := domain.BrandAnil
	if sum&1 == 1 {
		brand = domain.BrandAmai
	}

	return domain.Product{
		ID:          productID,
		Name:        "Product " + productID,
		Price:       catalogBasePrice + int64(sum%catalogPriceSpread),
		Image:       catalogImage,
		Brand:       brand,
		Category:    catalogCategory,
		Description: "Premium quality product",
	}, nil
}
