package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tallow-shop/storefront/internal/logger"
	"github.com/tallow-shop/storefront/internal/models"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FileConfig 商品目录文件结构
type FileConfig struct {
	Products []ProductConfig `mapstructure:"products"`
}

// ProductConfig 单个商品配置
type ProductConfig struct {
	ID          string          `mapstructure:"id"`
	Name        string          `mapstructure:"name"`
	Description string          `mapstructure:"description"`
	Image       string          `mapstructure:"image"`
	Tags        []string        `mapstructure:"tags"`
	Facets      []string        `mapstructure:"facets"`
	Price       string          `mapstructure:"price"`
	ExternalID  string          `mapstructure:"external_id"` // 无规格商品的外部ID
	Variants    []VariantConfig `mapstructure:"variants"`
}

// VariantConfig 规格配置
type VariantConfig struct {
	Key        string `mapstructure:"key"`
	ExternalID string `mapstructure:"external_id"`
	Price      string `mapstructure:"price"`
	Image      string `mapstructure:"image"`
}

// Load 从文件加载商品目录
func Load(path string) (*Catalog, error) {
	v, err := readFile(path)
	if err != nil {
		return nil, err
	}
	products, err := decode(v)
	if err != nil {
		return nil, err
	}
	return New(products)
}

// Watch 监听目录文件变更并热替换；解析失败时保留旧目录
func Watch(path string, c *Catalog) (*viper.Viper, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}
	v, err := readFile(path)
	if err != nil {
		return nil, err
	}
	v.OnConfigChange(func(event fsnotify.Event) {
		if err := v.ReadInConfig(); err != nil {
			logger.Warnw("catalog_reload_read_failed", "file", event.Name, "error", err)
			return
		}
		products, err := decode(v)
		if err != nil {
			logger.Warnw("catalog_reload_decode_failed", "file", event.Name, "error", err)
			return
		}
		if err := c.Replace(products); err != nil {
			logger.Warnw("catalog_reload_failed", "file", event.Name, "error", err)
			return
		}
		logger.Infow("catalog_reloaded", "file", event.Name, "products", len(products))
	})
	v.WatchConfig()
	return v, nil
}

// BuildProducts 将配置转换为目录商品
func BuildProducts(cfg FileConfig) ([]Product, error) {
	products := make([]Product, 0, len(cfg.Products))
	for _, pc := range cfg.Products {
		p, err := buildProduct(pc)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func readFile(path string) (*viper.Viper, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: catalog path is empty", ErrInvalidCatalog)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return v, nil
}

func decode(v *viper.Viper) ([]Product, error) {
	var cfg FileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return BuildProducts(cfg)
}

func buildProduct(pc ProductConfig) (Product, error) {
	id := strings.TrimSpace(pc.ID)
	if id == "" {
		return Product{}, fmt.Errorf("%w: product id is empty", ErrInvalidCatalog)
	}
	price, err := parsePrice(pc.Price)
	if err != nil {
		return Product{}, fmt.Errorf("%w: product %s price: %v", ErrInvalidCatalog, id, err)
	}
	name := strings.TrimSpace(pc.Name)
	if name == "" {
		name = id
	}
	p := Product{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(pc.Description),
		Image:       strings.TrimSpace(pc.Image),
		Tags:        normalizeList(pc.Tags),
		Facets:      normalizeList(pc.Facets),
		Price:       price,
		Variants:    make(map[string]Variant, len(pc.Variants)),
	}

	// 无规格商品：以商品ID作为唯一规格 key
	if len(pc.Variants) == 0 {
		p.Variants[id] = Variant{Key: id, ExternalID: strings.TrimSpace(pc.ExternalID), Price: price}
		p.VariantOrder = []string{id}
		return p, nil
	}

	for _, vc := range pc.Variants {
		key := strings.TrimSpace(vc.Key)
		if key == "" {
			return Product{}, fmt.Errorf("%w: product %s has variant without key", ErrInvalidCatalog, id)
		}
		if _, dup := p.Variants[key]; dup {
			return Product{}, fmt.Errorf("%w: product %s duplicate variant %s", ErrInvalidCatalog, id, key)
		}
		variantPrice, err := parsePrice(vc.Price)
		if err != nil {
			return Product{}, fmt.Errorf("%w: variant %s/%s price: %v", ErrInvalidCatalog, id, key, err)
		}
		p.Variants[key] = Variant{
			Key:        key,
			ExternalID: strings.TrimSpace(vc.ExternalID),
			Price:      variantPrice,
			Free:       strings.TrimSpace(vc.Price) != "" && variantPrice.IsZero(),
			Image:      strings.TrimSpace(vc.Image),
		}
		p.VariantOrder = append(p.VariantOrder, key)
	}
	return p, nil
}

// parsePrice 空字符串视为未配置；负数价格无效
func parsePrice(raw string) (models.Money, error) {
	price, err := models.NewMoneyFromString(raw)
	if err != nil {
		return models.Money{}, err
	}
	if price.IsNegative() {
		return models.Money{}, fmt.Errorf("negative price %s", price)
	}
	return price, nil
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
