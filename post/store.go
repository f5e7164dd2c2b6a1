package post

import "context"

// Store is the data layer behind the controller. Each call returns exactly once.
//
// A nil *Post with a nil error means no record matched; stores must not report
// absence as an error.
type Store interface {
	// CreatePost persists a new post built from payload, assigning its ID and Date.
	CreatePost(ctx context.Context, payload Payload) (*Post, error)
	// UpdatePost applies the given payload fields to the post with the given id.
	UpdatePost(ctx context.Context, id string, payload Payload) (*Post, error)
	// FindPost returns the post with the given id whose fields match every given filter field.
	// An empty id matches any id.
	FindPost(ctx context.Context, id string, filter Payload) (*Post, error)
}
