// Package menu はメニューカタログの読み取りを提供する。
package menu

import (
	"context"
	"fmt"

	"github.com/hitoshi/pizzaya/internal/model"
	"github.com/hitoshi/pizzaya/internal/repository"
)

// Service はメニュー取得のサービス層。
// 商品はシードマイグレーションで投入されるため、読み取りのみ行う。
type Service struct {
	productRepo repository.ProductRepository
}

// NewService はServiceを生成する。
func NewService(productRepo repository.ProductRepository) *Service {
	return &Service{productRepo: productRepo}
}

// List は全商品を名前順で返す。商品が1つもない場合は空スライスを返す。
func (s *Service) List(ctx context.Context) ([]*model.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []*model.Product{}
	}
	return products, nil
}
