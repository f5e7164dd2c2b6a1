package post

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"blog/logging"
)

// IDParam is the path parameter carrying the post identifier.
const IDParam = "_id"

var errTrailingData = errors.New("unexpected data after JSON body")

// Controller serves the post endpoints on top of a Store. It keeps no state
// between requests.
type Controller struct {
	store  Store
	logger logging.Logger
}

func NewController(store Store, logger logging.Logger) *Controller {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &Controller{store: store, logger: logger}
}

// Create post
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := c.decodePayload(w, r)
	if !ok {
		return
	}

	post, err := c.store.CreatePost(r.Context(), payload)
	if err != nil {
		c.logger.Printf("[Posts] Create failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if post == nil {
		c.logger.Printf("[Posts] Create returned no record")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	c.logger.Printf("[Posts] Created post %s", post.ID)
	c.writePost(w, post)
}

// Update post by path id with the given body fields
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	payload, ok := c.decodePayload(w, r)
	if !ok {
		return
	}

	id := r.PathValue(IDParam)
	post, err := c.store.UpdatePost(r.Context(), id, payload)
	if err != nil {
		c.logger.Printf("[Posts] Update of %q failed: %v", id, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if post == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	c.logger.Printf("[Posts] Updated post %s", post.ID)
	c.writePost(w, post)
}

// FindPost looks a post up by path id, filtered by any fields given in the body
func (c *Controller) FindPost(w http.ResponseWriter, r *http.Request) {
	filter, ok := c.decodePayload(w, r)
	if !ok {
		return
	}

	id := r.PathValue(IDParam)
	post, err := c.store.FindPost(r.Context(), id, filter)
	if err != nil {
		c.logger.Printf("[Posts] Find of %q failed: %v", id, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if post == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	c.writePost(w, post)
}

// decodePayload reads the JSON body. An empty body is an empty payload. A body that
// is not a single JSON object gets a 400 and ok is false; field values are not checked.
func (c *Controller) decodePayload(w http.ResponseWriter, r *http.Request) (Payload, bool) {
	var payload Payload
	if r.Body == nil {
		return payload, true
	}
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&payload)
	if errors.Is(err, io.EOF) {
		return Payload{}, true
	}
	if err == nil {
		if _, next := dec.Token(); !errors.Is(next, io.EOF) {
			err = errTrailingData
		}
	}
	if err != nil {
		c.logger.Printf("[Posts] JSON decode error: %v", err)
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return Payload{}, false
	}
	return payload, true
}

func (c *Controller) writePost(w http.ResponseWriter, post *Post) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		c.logger.Printf("[Posts] Writing response failed: %v", err)
	}
}
