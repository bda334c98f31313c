package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KeySeparator 规格值拼接分隔符
const KeySeparator = "-"

const (
	facetSize  = "size"
	facetScent = "scent"
)

var _ Resolver = (*Catalog)(nil)

// ResolveVariant 解析商品规格，返回外部ID、单价与展示信息
func (c *Catalog) ResolveVariant(productID, variantKey string) (Resolution, error) {
	p, ok := c.Product(productID)
	if !ok {
		return Resolution{}, ErrVariantNotFound
	}
	v, ok := p.Variants[variantKey]
	if !ok {
		return Resolution{}, ErrVariantNotFound
	}
	image := v.Image
	if image == "" {
		image = p.Image
	}
	return Resolution{
		ProductID:    p.ID,
		VariantKey:   v.Key,
		ExternalID:   v.ExternalID,
		UnitPrice:    p.unitPrice(v),
		DisplayName:  p.Name,
		VariantLabel: formatLabel(p.Facets, variantKey),
		ImageURL:     image,
	}, nil
}

// Canonicalize 按给定顺序拼接规格值，空值保留原位；不校验组合是否存在
func (c *Catalog) Canonicalize(productID string, facetValues []string) string {
	return CanonicalKey(facetValues)
}

// CanonicalKey 拼接规格值
func CanonicalKey(facetValues []string) string {
	parts := make([]string, len(facetValues))
	for i, value := range facetValues {
		parts[i] = strings.TrimSpace(value)
	}
	return strings.Join(parts, KeySeparator)
}

// CompleteSelection 每个规格维度都已选值（数量与商品维度一致且无空值）
func (p Product) CompleteSelection(facetValues []string) bool {
	if len(facetValues) == 0 || len(facetValues) != len(p.Facets) {
		return false
	}
	for _, value := range facetValues {
		if strings.TrimSpace(value) == "" {
			return false
		}
	}
	return true
}

// FormatVariantLabel 将规格 key 转为展示文本
func (c *Catalog) FormatVariantLabel(productID, variantKey string) string {
	var facets []string
	if p, ok := c.Product(productID); ok {
		facets = p.Facets
	}
	return formatLabel(facets, variantKey)
}

// DefaultVariant 商品仅配置一个规格时返回该规格
func (c *Catalog) DefaultVariant(productID string) (string, bool) {
	p, ok := c.Product(productID)
	if !ok || len(p.VariantOrder) != 1 {
		return "", false
	}
	return p.VariantOrder[0], true
}

func formatLabel(facets []string, variantKey string) string {
	if isSizeScentPair(facets) {
		if size, scent, ok := strings.Cut(variantKey, KeySeparator); ok {
			return strings.ToUpper(size) + " - " + titleWords(scent)
		}
	}
	return titleWords(variantKey)
}

func isSizeScentPair(facets []string) bool {
	if len(facets) != 2 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(facets[0]), facetSize) &&
		strings.EqualFold(strings.TrimSpace(facets[1]), facetScent)
}

func titleWords(key string) string {
	words := strings.ReplaceAll(key, KeySeparator, " ")
	// Caser 有状态，不能跨 goroutine 共享
	return cases.Title(language.English, cases.NoLower).String(words)
}
