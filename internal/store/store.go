// Package store は認証情報ストアへのアクセスを抽象化します。
package store

import (
	"context"
	"time"
)

// User は users テーブルの1行を表します。
// PasswordHash には bcrypt ダイジェストのみを保存し、平文は決して保持しません。
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Store は認証情報に対する2つの操作を提供します。
// 実装はテストダブルと差し替えられるようにハンドラーへ注入します。
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}
