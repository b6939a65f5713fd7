package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStore keeps one document per namespace: {_id: namespace, values: {key: value}}.
// Single-document updates are atomic, which is what Set and Remove rely on.
type mongoStore struct {
	coll      *mongo.Collection
	namespace string
}

type mongoDoc struct {
	ID     string            `bson:"_id"`
	Values map[string]string `bson:"values"`
}

func NewMongoStore(coll *mongo.Collection, namespace string) Store {
	return &mongoStore{coll: coll, namespace: namespace}
}

func (s *mongoStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.namespace}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find store doc: %w", err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (s *mongoStore) Set(ctx context.Context, entries ...Entry) error {
	if err := checkEntries(entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	set := bson.M{}
	for _, e := range entries {
		set["values."+e.Key] = e.Value
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": s.namespace},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("update store doc: %w", err)
	}
	return nil
}

func (s *mongoStore) Remove(ctx context.Context, keys ...string) error {
	if err := checkKeys(keys); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	unset := bson.M{}
	for _, k := range keys {
		unset["values."+k] = ""
	}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": s.namespace}, bson.M{"$unset": unset}); err != nil {
		return fmt.Errorf("update store doc: %w", err)
	}
	return nil
}
