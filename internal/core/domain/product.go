package domain

// Brand is one of the two storefront collections.
type Brand string

const (
	BrandAnil Brand = "anil"
	BrandAmai Brand = "amai"
)

// Product is an immutable product reference. Price is in whole currency units.
type Product struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Price       int64  `json:"price" bson:"price"`
	Image       string `json:"image" bson:"image"`
	Brand       Brand  `json:"brand" bson:"brand"`
	Category    string `json:"category" bson:"category"`
	Description string `json:"description" bson:"description"`
}
