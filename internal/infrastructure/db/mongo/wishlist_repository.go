package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fanmerch/storefront/internal/core/domain"
)

const collectionWishlists = "wishlists"

// wishlistDoc stores one user's wishlist as an ordered array.
type wishlistDoc struct {
	UserID string           `bson:"_id"`
	Items  []domain.Product `bson:"items"`
}

type WishlistRepository struct {
	col *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{col: db.Collection(collectionWishlists)}
}

func (r *WishlistRepository) Get(ctx context.Context, userID string) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc wishlistDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrWishlistNotFound
		}
		return nil, fmt.Errorf("find wishlist: %w", err)
	}
	if doc.Items == nil {
		doc.Items = []domain.Product{}
	}
	return doc.Items, nil
}

func (r *WishlistRepository) Put(ctx context.Context, userID string, items []domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if items == nil {
		items = []domain.Product{}
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": userID},
		wishlistDoc{UserID: userID, Items: items},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put wishlist: %w", err)
	}
	return nil
}
