// Package postgres stores posts in Postgres through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog/post"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `SELECT id, author, title, content, date FROM posts`

// Store expects the posts table from the postgres migrations to exist.
type Store struct {
	DB  *pgxpool.Pool
	now func() time.Time
}

var _ post.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) CreatePost(ctx context.Context, payload post.Payload) (*post.Post, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("db is nil")
	}
	// Postgres keeps microseconds.
	p := payload.NewPost(uuid.NewString(), s.now().Truncate(time.Microsecond))

	const q = `INSERT INTO posts (id, author, title, content, date) VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.Exec(ctx, q, p.ID, p.Author, p.Title, p.Content, p.Date); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, payload post.Payload) (*post.Post, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("db is nil")
	}
	fields := payload.Fields()
	if len(fields) == 0 {
		return s.FindPost(ctx, id, post.Payload{})
	}

	setParts := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	for i, f := range fields {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", f.Name, i+1))
		args = append(args, f.Value)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE posts SET %s WHERE id = $%d RETURNING id, author, title, content, date`,
		strings.Join(setParts, ", "), len(args))

	return scanPost(s.DB.QueryRow(ctx, q, args...))
}

func (s *Store) FindPost(ctx context.Context, id string, filter post.Payload) (*post.Post, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("db is nil")
	}
	q, args := findQuery(id, filter)
	return scanPost(s.DB.QueryRow(ctx, q, args...))
}

func findQuery(id string, filter post.Payload) (string, []interface{}) {
	var where []string
	var args []interface{}
	if id != "" {
		args = append(args, id)
		where = append(where, fmt.Sprintf("id = $%d", len(args)))
	}
	for _, f := range filter.Fields() {
		args = append(args, f.Value)
		where = append(where, fmt.Sprintf("%s = $%d", f.Name, len(args)))
	}

	q := selectColumns
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return q + " ORDER BY date LIMIT 1", args
}

func scanPost(row pgx.Row) (*post.Post, error) {
	var p post.Post
	err := row.Scan(&p.ID, &p.Author, &p.Title, &p.Content, &p.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	p.Date = p.Date.UTC()
	return &p, nil
}
