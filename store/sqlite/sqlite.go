// Package sqlite stores posts in a sqlite database through database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog/post"

	"github.com/google/uuid"
)

const selectColumns = `SELECT id, author, title, content, date FROM posts`

// Store expects the posts table from the sqlite migrations to exist.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ post.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) CreatePost(ctx context.Context, payload post.Payload) (*post.Post, error) {
	p := payload.NewPost(uuid.NewString(), s.now())

	_, err := s.db.ExecContext(ctx, `INSERT INTO posts (id, author, title, content, date) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Author, p.Title, p.Content, p.Date)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, payload post.Payload) (*post.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	// Build dynamic query based on provided fields
	var setParts []string
	var args []interface{}
	for _, f := range payload.Fields() {
		setParts = append(setParts, f.Name+" = ?")
		args = append(args, f.Value)
	}

	if len(setParts) > 0 {
		args = append(args, id)
		query := fmt.Sprintf("UPDATE posts SET %s WHERE id = ?", strings.Join(setParts, ", "))
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("update post %s: %w", id, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("update post %s: %w", id, err)
		}
		if rowsAffected == 0 {
			return nil, nil
		}
	}

	p, err := scanPost(tx.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if err != nil || p == nil {
		return p, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return p, nil
}

func (s *Store) FindPost(ctx context.Context, id string, filter post.Payload) (*post.Post, error) {
	var where []string
	var args []interface{}
	if id != "" {
		where = append(where, "id = ?")
		args = append(args, id)
	}
	for _, f := range filter.Fields() {
		where = append(where, f.Name+" = ?")
		args = append(args, f.Value)
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date LIMIT 1"

	return scanPost(s.db.QueryRowContext(ctx, query, args...))
}

func scanPost(row *sql.Row) (*post.Post, error) {
	var p post.Post
	err := row.Scan(&p.ID, &p.Author, &p.Title, &p.Content, &p.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &p, nil
}
