package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		collection: db.Collection("wishlists"),
	}
}

func (m *mongoRepository) GetWishlist(ctx context.Context, userID string) (*Wishlist, error) {
	var wl Wishlist

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&wl)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWishlistNotFound
		}
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}

	return &wl, nil
}

// AddItem saves the product onto the user's wishlist, creating the wishlist
// on first use. Adding a product that is already saved is a no-op.
func (m *mongoRepository) AddItem(ctx context.Context, userID string, item Item) error {
	now := time.Now()
	item.AddedAt = now

	filter := bson.M{"user_id": userID}

	var existing Wishlist
	err := m.collection.FindOne(ctx, filter).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			wl := &Wishlist{
				UserID:    userID,
				Items:     []Item{item},
				CreatedAt: now,
				UpdatedAt: now,
			}

			if _, err := m.collection.InsertOne(ctx, wl); err != nil {
				return fmt.Errorf("failed to create wishlist with item: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to check existing wishlist: %w", err)
	}

	for _, existingItem := range existing.Items {
		if existingItem.ProductID == item.ProductID {
			return nil
		}
	}

	update := bson.M{
		"$push": bson.M{"items": item},
		"$set":  bson.M{"updated_at": now},
	}

	if _, err := m.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

func (m *mongoRepository) RemoveItem(ctx context.Context, userID string, productID int64) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$pull": bson.M{
			"items": bson.M{"product_id": productID},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrWishlistNotFound
	}

	return nil
}

func (m *mongoRepository) DeleteWishlist(ctx context.Context, userID string) error {
	filter := bson.M{"user_id": userID}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrWishlistNotFound
	}

	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
