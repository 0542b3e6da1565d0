package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsim/internal/domain"
	"github.com/nikolayk812/cartsim/internal/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCart struct {
	OwnerID   string          `bson:"owner_id"`
	Lines     []mongoCartLine `bson:"lines"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

type mongoCartLine struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCart(db *mongo.Database) port.CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("carts"),
	}
}

func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("client.Ping: %w", err)
	}

	db := client.Database(database)

	_, err = db.Collection("carts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("Indexes.CreateOne: %w", err)
	}

	return db, nil
}

func (r *mongoCartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	var doc mongoCart
	err := r.collection.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Cart{OwnerID: ownerID, Lines: []domain.CartLine{}}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("collection.FindOne: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		productID, err := uuid.Parse(l.ProductID)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("%w: product_id[%s]: %w", domain.ErrMalformedCart, l.ProductID, err)
		}
		lines = append(lines, domain.CartLine{ProductID: productID, Quantity: l.Quantity})
	}

	return domain.Cart{OwnerID: ownerID, Lines: lines}, nil
}

func (r *mongoCartRepository) SaveCart(ctx context.Context, cart domain.Cart) error {
	if cart.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	doc := mongoCart{
		OwnerID:   cart.OwnerID,
		Lines:     make([]mongoCartLine, 0, len(cart.Lines)),
		UpdatedAt: time.Now().UTC(),
	}
	for _, l := range cart.Lines {
		doc.Lines = append(doc.Lines, mongoCartLine{ProductID: l.ProductID.String(), Quantity: l.Quantity})
	}

	filter := bson.M{"owner_id": cart.OwnerID}
	update := bson.M{"$set": doc}

	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("collection.UpdateOne: %w", err)
	}

	return nil
}
