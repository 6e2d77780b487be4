package portal

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository serves portal content from MongoDB collections
// (children, lessons, videos). Used in production when MONGODB_URI is set.
type MongoRepository struct {
	db *mongo.Database
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{db: db}
}

func (r *MongoRepository) Children(ctx context.Context, parentID string) ([]Child, error) {
	filter := bson.M{}
	if parentID != "" {
		filter = bson.M{"$or": []bson.M{
			{"parent_id": parentID},
			{"parent_id": "demo-parent"},
		}}
	}

	cursor, err := r.db.Collection("children").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var children []Child
	if err := cursor.All(ctx, &children); err != nil {
		return nil, err
	}
	return children, nil
}

func (r *MongoRepository) Lessons(ctx context.Context) ([]Lesson, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1})
	cursor, err := r.db.Collection("lessons").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lessons []Lesson
	if err := cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *MongoRepository) Videos(ctx context.Context, childID string) ([]Video, error) {
	filter := bson.M{"$or": []bson.M{
		{"for_child_id": ""},
		{"for_child_id": bson.M{"$exists": false}},
		{"for_child_id": childID},
	}}

	cursor, err := r.db.Collection("videos").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var videos []Video
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}
