// Package postgres は Postgres を背後に持つ認証情報ストアの実装です。
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourusername/dash-auth/internal/store"
)

// uniqueViolation は一意制約違反を示す PostgreSQL の SQLSTATE です。
const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateUser は (username, password_hash) を1行挿入します。
// username が重複している場合は store.ErrDuplicateUser を返し、行は挿入されません。
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*store.User, error) {
	user := &store.User{Username: username, PasswordHash: passwordHash}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, username, passwordHash)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, store.ErrDuplicateUser
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetUserByUsername は username の完全一致で0行または1行を返します。
// 該当行が無い場合は store.ErrUserNotFound を返します。
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	user := &store.User{}
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username)
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}
