package model

import "time"

// Product はメニューに掲載される商品を表す。
type Product struct {
	ID          string
	Name        string
	Description string
	PriceCents  int // 金額は最小通貨単位（セント）で保持する
	CreatedAt   time.Time
}
