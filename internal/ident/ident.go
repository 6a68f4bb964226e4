// Package ident は推測不可能なランダムIDの生成を提供する。
// トークンIDと注文IDの両方で使用する。
package ident

import (
	"crypto/rand"
	"fmt"
)

// alphabet はID生成に使用する英数字のアルファベット。
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxUnbiased はアルファベット長の倍数のうち256以下で最大の値。
// これ以上のバイト値は棄却して引き直すことで、剰余の偏りを避ける。
const maxUnbiased = 256 - 256%len(alphabet)

// New は暗号的に安全な乱数源から長さnの英数字ランダム文字列を生成する。
// 棄却サンプリングにより全文字が等確率で選ばれる。
func New(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("id length must be positive: %d", n)
	}

	id := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(id) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, v := range buf {
			if int(v) >= maxUnbiased {
				continue
			}
			id = append(id, alphabet[int(v)%len(alphabet)])
			if len(id) == n {
				break
			}
		}
	}
	return string(id), nil
}
