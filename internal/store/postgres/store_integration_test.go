package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourusername/dash-auth/internal/store"
)

func setupTestStore(t *testing.T, ctx context.Context) (*Store, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		t.Skip("TEST_DB_DSN or DB_DSN is required for integration tests")
	}

	if err := Migrate(ctx, dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	return NewStore(pool), pool
}

func TestCreateUserDuplicate(t *testing.T) {
	ctx := context.Background()
	st, pool := setupTestStore(t, ctx)

	username := "user-" + uuid.NewString()
	if _, err := st.CreateUser(ctx, username, "digest-a"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := st.CreateUser(ctx, username, "digest-b"); !errors.Is(err, store.ErrDuplicateUser) {
		t.Fatalf("second insert error = %v, want ErrDuplicateUser", err)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE username = $1`, username).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("row count = %d, want 1", count)
	}
}

func TestGetUserByUsername(t *testing.T) {
	ctx := context.Background()
	st, _ := setupTestStore(t, ctx)

	username := "user-" + uuid.NewString()
	created, err := st.CreateUser(ctx, username, "digest")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("store must assign an id")
	}

	found, err := st.GetUserByUsername(ctx, username)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found.ID != created.ID || found.Username != username || found.PasswordHash != "digest" {
		t.Fatalf("unexpected row: %+v", found)
	}
}

func TestGetUserByUsernameExactMatch(t *testing.T) {
	ctx := context.Background()
	st, _ := setupTestStore(t, ctx)

	username := "User-" + uuid.NewString()
	if _, err := st.CreateUser(ctx, username, "digest"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// 完全一致でのみヒットすること（大文字小文字も区別する）
	if _, err := st.GetUserByUsername(ctx, username); err != nil {
		t.Fatalf("exact lookup: %v", err)
	}
	if _, err := st.GetUserByUsername(ctx, "user-"+username[5:]); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("lowercase lookup error = %v, want ErrUserNotFound", err)
	}
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	ctx := context.Background()
	st, _ := setupTestStore(t, ctx)

	if _, err := st.GetUserByUsername(ctx, "missing-"+uuid.NewString()); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}
