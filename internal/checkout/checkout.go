package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tallow-shop/storefront/internal/cart"
	"github.com/tallow-shop/storefront/internal/config"
)

var (
	// ErrConfigInvalid 结算配置非法
	ErrConfigInvalid = errors.New("checkout config invalid")
	// ErrHandoffInvalid 交接载荷非法（空或缺少外部ID）
	ErrHandoffInvalid = errors.New("checkout handoff invalid")
	// ErrRequestFailed 调用外部结算方失败
	ErrRequestFailed = errors.New("checkout request failed")
)

// Session 外部结算会话：前端跳转到 URL 即可完成支付
type Session struct {
	Provider string `json:"provider"`
	ID       string `json:"id,omitempty"`
	URL      string `json:"url"`
	Payload  string `json:"payload"`
}

// Provider 结算交接方式
type Provider interface {
	Name() string
	Checkout(ctx context.Context, reference string, handoff cart.Handoff) (*Session, error)
}

// NewProvider 按配置创建结算方式
func NewProvider(cfg config.CheckoutConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", config.CheckoutProviderRedirect:
		p, err := NewRedirectProvider(cfg.StoreDomain)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.CheckoutProviderStripe:
		p, err := NewStripeProvider(StripeConfig{
			SecretKey:  cfg.Stripe.SecretKey,
			SuccessURL: cfg.Stripe.SuccessURL,
			CancelURL:  cfg.Stripe.CancelURL,
			Timeout:    time.Duration(cfg.TimeoutMS) * time.Millisecond,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrConfigInvalid, cfg.Provider)
	}
}

func validateHandoff(handoff cart.Handoff) error {
	if len(handoff.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrHandoffInvalid)
	}
	for i, item := range handoff.Items {
		if strings.TrimSpace(item.ExternalID) == "" {
			return fmt.Errorf("%w: item %d missing external id", ErrHandoffInvalid, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity %d", ErrHandoffInvalid, i, item.Quantity)
		}
	}
	return nil
}
