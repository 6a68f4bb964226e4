package ident

import (
	"strings"
	"testing"
)

// TestNew_ReturnsRequestedLength は指定した長さのIDが生成されることを検証する。
func TestNew_ReturnsRequestedLength(t *testing.T) {
	for _, n := range []int{1, 20, 64} {
		id, err := New(n)
		if err != nil {
			t.Fatalf("New(%d) returned error: %v", n, err)
		}
		if len(id) != n {
			t.Errorf("len(New(%d)) = %d, want %d", n, len(id), n)
		}
	}
}

// TestNew_AlphanumericOnly は生成されたIDが英数字のみで構成されることを検証する。
func TestNew_AlphanumericOnly(t *testing.T) {
	id, err := New(200)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	for _, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			t.Errorf("id contains unexpected character %q", c)
		}
	}
}

// TestNew_NonPositiveLength_ReturnsError は0以下の長さがエラーになることを検証する。
func TestNew_NonPositiveLength_ReturnsError(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := New(n); err == nil {
			t.Errorf("New(%d) expected error, got nil", n)
		}
	}
}

// TestNew_AllAlphabetCharactersReachable は十分なサンプルで全文字が出現することを検証する。
// 棄却サンプリングの実装ミスで一部の文字が選ばれなくなる退行を検出する。
func TestNew_AllAlphabetCharactersReachable(t *testing.T) {
	seen := make(map[rune]bool)
	for i := 0; i < 100; i++ {
		id, err := New(64)
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		for _, c := range id {
			seen[c] = true
		}
	}

	for _, c := range alphabet {
		if !seen[c] {
			t.Errorf("character %q never appeared in 6400 samples", c)
		}
	}
}

// TestMaxUnbiased_IsAlphabetMultiple は棄却閾値がアルファベット長の倍数であることを検証する。
func TestMaxUnbiased_IsAlphabetMultiple(t *testing.T) {
	if maxUnbiased%len(alphabet) != 0 {
		t.Errorf("maxUnbiased = %d is not a multiple of %d", maxUnbiased, len(alphabet))
	}
	if maxUnbiased <= 0 || maxUnbiased > 256 {
		t.Errorf("maxUnbiased = %d out of range", maxUnbiased)
	}
}

// TestNew_DistinctValues は連続生成したIDが重複しないことを検証する。
func TestNew_DistinctValues(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := New(20)
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}
