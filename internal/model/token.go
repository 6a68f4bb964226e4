package model

import "time"

// TokenIDLength はトークンIDの固定長。
const TokenIDLength = 20

// Token はユーザーのセッショントークンを表す。
// IDは推測不可能な20文字の英数字ランダム文字列。
type Token struct {
	ID        string
	Email     string // 所有者のメールアドレス。ストレージではなくロジック側で整合性を保証する。
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired はトークンが期限切れかどうかを返す。
func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
