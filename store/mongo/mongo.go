// Package mongo stores posts as documents in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog/post"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "posts"

type document struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Author  string             `bson:"author"`
	Title   string             `bson:"title"`
	Content string             `bson:"content"`
	Date    time.Time          `bson:"date"`
}

func (d document) post() *post.Post {
	return &post.Post{
		ID:      d.ID.Hex(),
		Author:  d.Author,
		Title:   d.Title,
		Content: d.Content,
		Date:    d.Date.UTC(),
	}
}

type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ post.Store = (*Store)(nil)

func New(client *mongo.Client, database string) *Store {
	return &Store{
		coll: client.Database(database).Collection(Collection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the date index used to order lookups without an id.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "date", Value: 1}}})
	if err != nil {
		return fmt.Errorf("create posts date index: %w", err)
	}
	return nil
}

func (s *Store) CreatePost(ctx context.Context, payload post.Payload) (*post.Post, error) {
	// BSON dates keep milliseconds.
	date := s.now().Truncate(time.Millisecond)
	p := payload.NewPost("", date)
	doc := document{
		ID:      primitive.NewObjectID(),
		Author:  p.Author,
		Title:   p.Title,
		Content: p.Content,
		Date:    date,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return doc.post(), nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, payload post.Payload) (*post.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// No document can carry an id that is not an ObjectID.
		return nil, nil
	}
	set := setDocument(payload)
	if len(set) == 0 {
		return s.FindPost(ctx, id, post.Payload{})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts)
	return decode(res, "update post "+id)
}

func (s *Store) FindPost(ctx context.Context, id string, filter post.Payload) (*post.Post, error) {
	query, ok := filterDocument(id, filter)
	if !ok {
		return nil, nil
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: 1}})
	return decode(s.coll.FindOne(ctx, query, opts), "find post")
}

func decode(res *mongo.SingleResult, op string) (*post.Post, error) {
	var doc document
	err := res.Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc.post(), nil
}

// filterDocument builds the lookup filter. ok is false when id can never match.
func filterDocument(id string, filter post.Payload) (bson.D, bool) {
	query := bson.D{}
	if id != "" {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, false
		}
		query = append(query, bson.E{Key: "_id", Value: oid})
	}
	for _, f := range filter.Fields() {
		query = append(query, bson.E{Key: f.Name, Value: f.Value})
	}
	return query, true
}

func setDocument(payload post.Payload) bson.D {
	set := bson.D{}
	for _, f := range payload.Fields() {
		set = append(set, bson.E{Key: f.Name, Value: f.Value})
	}
	return set
}
