// Package model はドメインモデルを定義する。
package model

import "time"

// User は注文APIの登録ユーザーを表す。
// メールアドレスが一意の識別子となる。
type User struct {
	Email          string
	FirstName      string
	LastName       string
	HashedPassword string // パスワードダイジェスト。APIレスポンスには決して含めない。
	StreetAddress  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
