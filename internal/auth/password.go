package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost は bcrypt のワークファクターです。
// 既存ダイジェストが検証できなくなるため、プロセス稼働中に変更してはいけません。
const hashCost = 10

// HashPassword は平文パスワードを呼び出しごとに新しいソルトでハッシュ化します。
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword は平文と保存済みダイジェストを比較します。
// 不一致は (false, nil) を返します。エラーはダイジェスト自体が不正な場合のみで、
// 資格情報の誤りとは区別して扱います。
func VerifyPassword(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
