package mongostore

import (
	"context"
	"errors"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository implements catalog.ProductRepository on a MongoDB collection
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(coll *mongo.Collection) *ProductRepository {
	return &ProductRepository{coll: coll}
}

func (r *ProductRepository) findOne(ctx context.Context, filter bson.D) (*catalog.Product, error) {
	var doc productDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

// FindByID finds a product by its ID
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

// FindByName finds the product with exactly this name
func (r *ProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	return r.findOne(ctx, bson.D{{Key: "name", Value: name}})
}

// FindAll finds all products matching the filter in creation order
func (r *ProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	query := bson.D{}
	if filter.Name != nil {
		query = append(query, bson.E{Key: "name", Value: *filter.Name})
	}
	if filter.Available != nil {
		query = append(query, bson.E{Key: "available", Value: *filter.Available})
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]catalog.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

// ExistsByName checks whether a product other than excludeID uses name
func (r *ProductRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.D{
		{Key: "name", Value: name},
		{Key: "_id", Value: bson.D{{Key: "$ne", Value: excludeID.String()}}},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert stores a new product
func (r *ProductRepository) Insert(ctx context.Context, product *catalog.Product) error {
	doc, err := toProductDocument(product)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return translateWriteError(err, "name")
}

// Update replaces the stored product matched by ID. No matching document
// means the product was deleted meanwhile and yields shared.ErrNotFound.
func (r *ProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	doc, err := toProductDocument(product)
	if err != nil {
		return err
	}
	result, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc)
	if err != nil {
		return translateWriteError(err, "name")
	}
	if result.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.ProductRepository = (*ProductRepository)(nil)
