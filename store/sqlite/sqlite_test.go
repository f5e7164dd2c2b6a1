package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"blog/db"
	"blog/logging"
	"blog/pkg/db/migrations"
	"blog/post"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedDate = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	path := filepath.Join(t.TempDir(), "blog.db")
	require.NoError(t, migrations.ApplyMigrations(migrations.SQLite, path, logging.NullLogger()))

	conn, err := db.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	s := New(conn)
	s.now = func() time.Time { return fixedDate }
	return s
}

func payloadFromJSON(t *testing.T, body string) post.Payload {
	var p post.Payload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestCreateAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreatePost(ctx, post.NewPayload("stswenguser", "My first test post", "Random content"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)

	found, err := s.FindPost(ctx, created.ID, post.Payload{})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "stswenguser", found.Author)
	assert.Equal(t, "My first test post", found.Title)
	assert.Equal(t, "Random content", found.Content)
	assert.True(t, fixedDate.Equal(found.Date), "date was %v", found.Date)
}

func TestFindAppliesBodyFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreatePost(ctx, post.NewPayload("a", "t", "c"))
	require.NoError(t, err)

	found, err := s.FindPost(ctx, created.ID, payloadFromJSON(t, `{"author":"a","title":"t"}`))
	require.NoError(t, err)
	assert.NotNil(t, found)

	found, err = s.FindPost(ctx, created.ID, payloadFromJSON(t, `{"title":"other"}`))
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = s.FindPost(ctx, "", payloadFromJSON(t, `{"content":"c"}`))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestFindMissingIsAbsent(t *testing.T) {
	found, err := newTestStore(t).FindPost(context.Background(), "507asdghajsdhjgasd", post.Payload{})
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestUpdateChangesOnlyGivenFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreatePost(ctx, post.NewPayload("a", "t", "c"))
	require.NoError(t, err)

	s.now = func() time.Time { return fixedDate.Add(time.Hour) }
	updated, err := s.UpdatePost(ctx, created.ID, payloadFromJSON(t, `{"content":"new content"}`))
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "a", updated.Author)
	assert.Equal(t, "t", updated.Title)
	assert.Equal(t, "new content", updated.Content)
	assert.True(t, fixedDate.Equal(updated.Date))
}

func TestUpdateWithEmptyPayloadReturnsCurrentPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.CreatePost(ctx, post.NewPayload("a", "t", "c"))
	require.NoError(t, err)

	updated, err := s.UpdatePost(ctx, created.ID, post.Payload{})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "t", updated.Title)
}

func TestUpdateMissingIsAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	updated, err := s.UpdatePost(ctx, "missing", post.NewPayload("a", "b", "c"))
	assert.NoError(t, err)
	assert.Nil(t, updated)

	updated, err = s.UpdatePost(ctx, "missing", post.Payload{})
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestStoreErrorsAreReturned(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.db.Close())

	_, err := s.CreatePost(context.Background(), post.NewPayload("a", "b", "c"))
	assert.Error(t, err)
	_, err = s.FindPost(context.Background(), "x", post.Payload{})
	assert.Error(t, err)
}
