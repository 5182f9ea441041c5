package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/repository"
)

// DefaultCollection holds one document per catalog row, keyed like the spreadsheet header.
const DefaultCollection = "exercises"

// mongoCatalogSource implements repository.CatalogSource over a MongoDB collection.
type mongoCatalogSource struct {
	collection *mongo.Collection
}

// NewMongoCatalogSource creates a read-only catalog source backed by MongoDB.
func NewMongoCatalogSource(db *mongo.Database, collection string) repository.CatalogSource {
	if collection == "" {
		collection = DefaultCollection
	}
	return &mongoCatalogSource{
		collection: db.Collection(collection),
	}
}

func (r *mongoCatalogSource) Name() string {
	return "mongo:" + r.collection.Name()
}

// FetchRows returns every document in insertion order, without Mongo's own _id.
func (r *mongoCatalogSource) FetchRows(ctx context.Context) ([]domain.Row, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 0})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, repository.Unavailable(r.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, repository.Unavailable(r.Name(), err)
	}

	rows := make([]domain.Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, domain.Row(doc))
	}
	return rows, nil
}
