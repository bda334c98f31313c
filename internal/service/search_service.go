package service

import (
	"strings"
	"unicode/utf8"

	"github.com/tallow-shop/storefront/internal/catalog"
	"github.com/tallow-shop/storefront/internal/constants"
)

// SearchService 商品搜索（名称、描述、标签的大小写不敏感子串匹配）
type SearchService struct {
	catalog CatalogReader
}

// NewSearchService 创建搜索服务
func NewSearchService(c CatalogReader) *SearchService {
	return &SearchService{catalog: c}
}

// Search 搜索商品；查询过短时返回空结果与 ErrSearchQueryTooShort
func (s *SearchService) Search(query string) ([]catalog.Product, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(needle) < constants.SearchMinQueryLength {
		return []catalog.Product{}, ErrSearchQueryTooShort
	}
	results := make([]catalog.Product, 0)
	for _, product := range s.catalog.Products() {
		if productMatches(product, needle) {
			results = append(results, product)
		}
	}
	return results, nil
}

func productMatches(product catalog.Product, needle string) bool {
	if strings.Contains(strings.ToLower(product.Name), needle) ||
		strings.Contains(strings.ToLower(product.Description), needle) {
		return true
	}
	for _, tag := range product.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
