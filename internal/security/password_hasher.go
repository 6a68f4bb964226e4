// Package security はアプリケーションのセキュリティ機能を提供する。
//
// PasswordHasher はユーザーパスワードのダイジェスト生成と照合を行う。
// サーバー秘密鍵をキーとしたHMAC-SHA256による決定的ダイジェストで、
// 同一の入力に対して常に同一の出力を返す。
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PasswordHasher はパスワードのダイジェスト生成・照合機能のインターフェースを定義する。
// ユーザー登録時の保存前処理およびログイン時の資格情報照合に使用される。
type PasswordHasher interface {
	// Hash は平文パスワードのダイジェストを返す。
	// 空文字列の入力には空文字列を返す。
	Hash(plaintext string) string
	// Compare は平文パスワードと保存済みダイジェストを照合する。
	// タイミング攻撃を避けるため定数時間比較を行う。
	Compare(plaintext, digest string) bool
}

// hmacHasher はPasswordHasherの実装。
// 環境変数由来の秘密鍵を保持し、スレッドセーフにダイジェスト処理を行う。
type hmacHasher struct {
	secret []byte
}

// NewPasswordHasher はPasswordHasherの新しいインスタンスを生成する。
// secretはHMACの鍵として使用されるサーバー秘密値。
func NewPasswordHasher(secret string) *hmacHasher {
	return &hmacHasher{secret: []byte(secret)}
}

var _ PasswordHasher = (*hmacHasher)(nil)

// Hash は平文パスワードのHMAC-SHA256ダイジェストを16進文字列で返す。
func (h *hmacHasher) Hash(plaintext string) string {
	if plaintext == "" {
		return ""
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

// Compare は平文パスワードのダイジェストとdigestを定数時間で比較する。
func (h *hmacHasher) Compare(plaintext, digest string) bool {
	if plaintext == "" || digest == "" {
		return false
	}
	return hmac.Equal([]byte(h.Hash(plaintext)), []byte(digest))
}
