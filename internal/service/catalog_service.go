package service

import (
	"github.com/tallow-shop/storefront/internal/catalog"
	"github.com/tallow-shop/storefront/internal/models"
)

// CatalogReader 服务层依赖的商品目录能力
type CatalogReader interface {
	catalog.Resolver
	Product(productID string) (catalog.Product, bool)
	Products() []catalog.Product
}

// VariantView 规格展示
type VariantView struct {
	Key        string       `json:"key"`
	Label      string       `json:"label"`
	ExternalID string       `json:"external_id"`
	Price      models.Money `json:"price"`
	Image      string       `json:"image"`
}

// ProductDetail 商品详情
type ProductDetail struct {
	catalog.Product
	Variants       []VariantView `json:"variants"`
	DefaultVariant string        `json:"default_variant,omitempty"`
}

// CatalogService 商品目录服务
type CatalogService struct {
	catalog CatalogReader
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(c CatalogReader) *CatalogService {
	return &CatalogService{catalog: c}
}

// List 按目录顺序返回全部商品
func (s *CatalogService) List() []catalog.Product {
	return s.catalog.Products()
}

// Get 商品详情（含规格展示文本与价格）
func (s *CatalogService) Get(productID string) (*ProductDetail, error) {
	product, ok := s.catalog.Product(productID)
	if !ok {
		return nil, ErrProductNotFound
	}
	detail := &ProductDetail{
		Product:  product,
		Variants: make([]VariantView, 0, len(product.VariantOrder)),
	}
	for _, variant := range product.OrderedVariants() {
		res, err := s.catalog.ResolveVariant(product.ID, variant.Key)
		if err != nil {
			continue
		}
		detail.Variants = append(detail.Variants, VariantView{
			Key:        variant.Key,
			Label:      res.VariantLabel,
			ExternalID: res.ExternalID,
			Price:      res.UnitPrice,
			Image:      res.ImageURL,
		})
	}
	if key, ok := s.catalog.DefaultVariant(product.ID); ok {
		detail.DefaultVariant = key
	}
	return detail, nil
}
