package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tallow-shop/storefront/internal/models"
)

var (
	// ErrVariantNotFound 商品或规格组合不存在
	ErrVariantNotFound = errors.New("catalog variant not found")
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("catalog product not found")
	// ErrInvalidCatalog 商品目录配置非法
	ErrInvalidCatalog = errors.New("catalog config invalid")
)

// Variant 商品规格（一个规范化 key 对应一条）
type Variant struct {
	Key        string       `json:"key"`
	ExternalID string       `json:"external_id"`
	Price      models.Money `json:"price"`
	Free       bool         `json:"-"` // 显式配置为 0 的免费规格，不回落到商品统一价
	Image      string       `json:"image,omitempty"`
}

// Product 商品目录条目
type Product struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Image        string             `json:"image"`
	Tags         []string           `json:"tags"`
	Facets       []string           `json:"facets"`
	Price        models.Money       `json:"price"`
	Variants     map[string]Variant `json:"-"`
	VariantOrder []string           `json:"-"`
}

// OrderedVariants 按配置顺序返回规格列表
func (p Product) OrderedVariants() []Variant {
	out := make([]Variant, 0, len(p.VariantOrder))
	for _, key := range p.VariantOrder {
		if v, ok := p.Variants[key]; ok {
			out = append(out, v)
		}
	}
	return out
}

// unitPrice 规格未配置价格时回落到商品统一价
func (p Product) unitPrice(v Variant) models.Money {
	if v.Free {
		return models.Money{}
	}
	if v.Price.IsZero() {
		return p.Price
	}
	return v.Price
}

// Resolution 规格解析结果
type Resolution struct {
	ProductID    string       `json:"product_id"`
	VariantKey   string       `json:"variant_key"`
	ExternalID   string       `json:"external_id"`
	UnitPrice    models.Money `json:"unit_price"`
	DisplayName  string       `json:"display_name"`
	VariantLabel string       `json:"variant_label"`
	ImageURL     string       `json:"image_url"`
}

// Resolver 购物车依赖的目录解析能力
type Resolver interface {
	ResolveVariant(productID, variantKey string) (Resolution, error)
	Canonicalize(productID string, facetValues []string) string
	FormatVariantLabel(productID, variantKey string) string
	DefaultVariant(productID string) (string, bool)
}

// Catalog 静态商品目录（启动时加载，可整体替换）
type Catalog struct {
	mu       sync.RWMutex
	products map[string]Product
	order    []string
}

// New 创建商品目录
func New(products []Product) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(products); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace 用新的商品列表整体替换目录
func (c *Catalog) Replace(products []Product) error {
	indexed := make(map[string]Product, len(products))
	order := make([]string, 0, len(products))
	for _, p := range products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("%w: product id is empty", ErrInvalidCatalog)
		}
		if _, dup := indexed[id]; dup {
			return fmt.Errorf("%w: duplicate product %s", ErrInvalidCatalog, id)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("%w: product %s has negative price", ErrInvalidCatalog, id)
		}
		p.ID = id
		if p.Variants == nil {
			p.Variants = map[string]Variant{}
		}
		for _, key := range p.VariantOrder {
			v, ok := p.Variants[key]
			if !ok {
				return fmt.Errorf("%w: product %s lists unknown variant %s", ErrInvalidCatalog, id, key)
			}
			if v.Price.IsNegative() {
				return fmt.Errorf("%w: variant %s/%s has negative price", ErrInvalidCatalog, id, key)
			}
		}
		if len(p.VariantOrder) != len(p.Variants) {
			return fmt.Errorf("%w: product %s variant order mismatch", ErrInvalidCatalog, id)
		}
		indexed[id] = p
		order = append(order, id)
	}

	c.mu.Lock()
	c.products = indexed
	c.order = order
	c.mu.Unlock()
	return nil
}

// SetPrice 修改单个规格价格（已在购物车中的商品下次计算即生效）
func (c *Catalog) SetPrice(productID, variantKey string, price models.Money) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	v, ok := p.Variants[variantKey]
	if !ok {
		return ErrVariantNotFound
	}
	variants := make(map[string]Variant, len(p.Variants))
	for k, existing := range p.Variants {
		variants[k] = existing
	}
	v.Price = price
	v.Free = price.IsZero()
	variants[variantKey] = v
	p.Variants = variants
	c.products[productID] = p
	return nil
}

// Product 按 ID 获取商品
func (c *Catalog) Product(productID string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[strings.TrimSpace(productID)]
	return p, ok
}

// Products 按配置顺序返回全部商品
func (c *Catalog) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// Len 商品数量
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
