package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tallow-shop/storefront/internal/cart"
	"github.com/tallow-shop/storefront/internal/config"
)

// RedirectProvider 拼接店铺购物车永久链接 https://{domain}/cart/{id}:{qty},...
type RedirectProvider struct {
	domain string
}

// NewRedirectProvider 创建跳转结算方式
func NewRedirectProvider(storeDomain string) (*RedirectProvider, error) {
	domain := normalizeDomain(storeDomain)
	if domain == "" {
		return nil, fmt.Errorf("%w: store_domain is required", ErrConfigInvalid)
	}
	if _, err := url.Parse("https://" + domain); err != nil || strings.ContainsAny(domain, "/?# ") {
		return nil, fmt.Errorf("%w: store_domain %q is invalid", ErrConfigInvalid, storeDomain)
	}
	return &RedirectProvider{domain: domain}, nil
}

// Name 名称
func (p *RedirectProvider) Name() string {
	return config.CheckoutProviderRedirect
}

// Checkout 生成跳转链接，不访问网络
func (p *RedirectProvider) Checkout(_ context.Context, _ string, handoff cart.Handoff) (*Session, error) {
	if err := validateHandoff(handoff); err != nil {
		return nil, err
	}
	pairs := make([]string, 0, len(handoff.Items))
	for _, item := range handoff.Items {
		pairs = append(pairs, NumericVariantID(item.ExternalID)+":"+strconv.Itoa(item.Quantity))
	}
	return &Session{
		Provider: p.Name(),
		URL:      "https://" + p.domain + "/cart/" + strings.Join(pairs, ","),
		Payload:  handoff.String(),
	}, nil
}

// NumericVariantID 取外部ID最后一段（gid://shopify/ProductVariant/123 -> 123）
func NumericVariantID(externalID string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(externalID), "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

func normalizeDomain(raw string) string {
	domain := strings.TrimSpace(raw)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}
