package model

import "time"

// OrderIDLength は注文IDの固定長。
const OrderIDLength = 20

// Order はユーザーのショッピングカート（注文）を表す。
// purchased が true になった後は、Update操作で内容を変更できない。
type Order struct {
	ID              string
	Email           string // 所有者のメールアドレス
	DeliveryAddress string
	LineItems       []string // 商品IDの順序付きリスト。空は許可しない。
	Amount          float64  // 合計金額。正の非ゼロ値のみ許可する。
	Purchased       bool
	Version         int // 楽観的排他制御用の単調増加バージョン
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderUpdate は注文の部分更新を表す。
// Amountは必須。DeliveryAddressとLineItemsは少なくとも一方を指定する。
type OrderUpdate struct {
	DeliveryAddress string
	LineItems       []string
	Amount          float64
}
