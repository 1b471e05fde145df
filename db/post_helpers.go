package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var ErrPostNotFound = errors.New("post not found")

// DefaultPoster is written for every new post since there are no users.
const DefaultPoster = 0

type PostStore struct {
	conn *sqlx.DB
}

func NewPostStore(conn *sqlx.DB) *PostStore {
	return &PostStore{conn: conn}
}

func (s *PostStore) Get(ctx context.Context, id int64) (*Post, error) {
	var post Post
	query := s.conn.Rebind("SELECT id, poster, title, body FROM posts WHERE id = ? LIMIT 1")

	err := s.conn.GetContext(ctx, &post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, errors.Wrapf(err, "error getting post %d", id)
	}

	return &post, nil
}

func (s *PostStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.conn.GetContext(ctx, &count, "SELECT COUNT(*) FROM posts")
	if err != nil {
		return 0, errors.Wrap(err, "error counting posts")
	}

	return count, nil
}

// All returns every post in whatever order the database scans them.
func (s *PostStore) All(ctx context.Context) ([]*Post, error) {
	posts := []*Post{}
	err := s.conn.SelectContext(ctx, &posts, "SELECT id, poster, title, body FROM posts")
	if err != nil {
		return nil, errors.Wrap(err, "error fetching posts")
	}

	return posts, nil
}

func (s *PostStore) Create(ctx context.Context, title, body string) (int64, error) {
	var id int64
	query := s.conn.Rebind("INSERT INTO posts (poster, title, body) VALUES (?, ?, ?) RETURNING id")

	err := s.conn.QueryRowxContext(ctx, query, DefaultPoster, title, body).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "error inserting new post")
	}

	return id, nil
}

func (s *PostStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}
