package checkout

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tallow-shop/storefront/internal/cart"
	"github.com/tallow-shop/storefront/internal/config"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
)

const defaultStripeTimeout = 10 * time.Second

// StripeConfig Stripe 托管结算配置
type StripeConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration // 0 使用默认 10s
}

// sessionCreator 创建 Checkout Session（测试中替换）
type sessionCreator func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)

// StripeProvider 通过 Stripe Checkout 创建托管结算会话，外部ID即 Stripe Price ID
type StripeProvider struct {
	cfg    StripeConfig
	create sessionCreator
}

// ValidateStripeConfig 校验配置
func ValidateStripeConfig(cfg StripeConfig) error {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: stripe secret_key is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(cfg.SuccessURL)); err != nil {
		return fmt.Errorf("%w: stripe success_url is invalid", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(strings.TrimSpace(cfg.CancelURL)); err != nil {
		return fmt.Errorf("%w: stripe cancel_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// NewStripeProvider 创建 Stripe 结算方式
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
	cfg.SuccessURL = strings.TrimSpace(cfg.SuccessURL)
	cfg.CancelURL = strings.TrimSpace(cfg.CancelURL)
	if err := ValidateStripeConfig(cfg); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultStripeTimeout
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: timeout},
	})
	client := &session.Client{B: backend, Key: cfg.SecretKey}
	return &StripeProvider{cfg: cfg, create: client.New}, nil
}

// Name 名称
func (p *StripeProvider) Name() string {
	return config.CheckoutProviderStripe
}

// Checkout 创建 Checkout Session
func (p *StripeProvider) Checkout(ctx context.Context, reference string, handoff cart.Handoff) (*Session, error) {
	if err := validateHandoff(handoff); err != nil {
		return nil, err
	}
	params := buildSessionParams(p.cfg, reference, handoff)
	params.Context = ctx

	created, err := p.create(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if created == nil || strings.TrimSpace(created.URL) == "" {
		return nil, fmt.Errorf("%w: session without url", ErrRequestFailed)
	}
	return &Session{
		Provider: p.Name(),
		ID:       created.ID,
		URL:      created.URL,
		Payload:  handoff.String(),
	}, nil
}

func buildSessionParams(cfg StripeConfig, reference string, handoff cart.Handoff) *stripe.CheckoutSessionParams {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(handoff.Items))
	for _, item := range handoff.Items {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(strings.TrimSpace(item.ExternalID)),
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(cfg.SuccessURL),
		CancelURL:  stripe.String(cfg.CancelURL),
		LineItems:  items,
	}
	if reference = strings.TrimSpace(reference); reference != "" {
		params.ClientReferenceID = stripe.String(reference)
		params.AddMetadata("cart_session", reference)
	}
	return params
}
