package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(connString string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(connString))
	if err != nil {
		return nil, err
	}

	dbName := "payments"
	if cs, err := connstring.ParseAndValidate(connString); err == nil && cs.Database != "" {
		dbName = cs.Database
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}

	s := &MongoStore{db: client.Database(dbName)}
	_, err = s.db.Collection("sorted_sets").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}, {Key: "member", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "key", Value: 1}, {Key: "score", Value: 1}}},
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) Get(ctx context.Context, key string) (string, error) {
	var doc struct {
		Value string `bson:"value"`
	}
	err := s.db.Collection("kv").FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	return doc.Value, err
}

func (s *MongoStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Collection("kv").UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	_, err := s.db.Collection("sorted_sets").UpdateOne(ctx,
		bson.M{"key": key, "member": member},
		bson.M{"$set": bson.M{"score": score}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	filter := bson.M{
		"key":   key,
		"score": bson.M{"$gte": min, "$lte": max},
	}
	opts := options.Find().SetSort(bson.D{{Key: "score", Value: 1}, {Key: "member", Value: 1}})

	cursor, err := s.db.Collection("sorted_sets").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []string
	for cursor.Next(ctx) {
		var doc struct {
			Member string `bson:"member"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		members = append(members, doc.Member)
	}
	return members, cursor.Err()
}

func (s *MongoStore) FlushAll(ctx context.Context) error {
	if _, err := s.db.Collection("kv").DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	_, err := s.db.Collection("sorted_sets").DeleteMany(ctx, bson.M{})
	return err
}

func (s *MongoStore) Close() error {
	return s.db.Client().Disconnect(context.Background())
}
