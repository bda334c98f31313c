package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/tallow-shop/storefront/internal/cart"
	"github.com/tallow-shop/storefront/internal/catalog"
	"github.com/tallow-shop/storefront/internal/checkout"
	"github.com/tallow-shop/storefront/internal/logger"
	"github.com/tallow-shop/storefront/internal/models"
)

const (
	maxCartSessionIDLength = 64
	defaultCartSessionIdle = 30 * time.Minute
	persistenceWarning     = "cart could not be saved; changes may be lost after reload"
)

// CartLineView 购物车行详情（用于响应）
type CartLineView struct {
	Index        int          `json:"index"`
	ProductID    string       `json:"product_id"`
	VariantKey   string       `json:"variant_key"`
	Name         string       `json:"name"`
	VariantLabel string       `json:"variant_label"`
	ImageURL     string       `json:"image_url"`
	Quantity     int          `json:"quantity"`
	UnitPrice    models.Money `json:"unit_price"`
	Subtotal     models.Money `json:"subtotal"`
	Available    bool         `json:"available"`
}

// CartView 购物车视图
type CartView struct {
	Lines     []CartLineView `json:"lines"`
	ItemCount int            `json:"item_count"`
	Total     models.Money   `json:"total"`
	Warning   string         `json:"warning,omitempty"`
}

// AddCartItemInput 加购输入：VariantKey 优先，其次按 Facets 拼接，都为空时取唯一规格
type AddCartItemInput struct {
	ProductID  string
	VariantKey string
	Facets     []string
	Quantity   int
}

// CheckoutResult 结算结果
type CheckoutResult struct {
	Provider  string `json:"provider"`
	SessionID string `json:"session_id,omitempty"`
	URL       string `json:"url"`
	Payload   string `json:"payload"`
}

// CartServiceOptions 购物车服务配置
type CartServiceOptions struct {
	SlotPrefix  string
	SessionIdle time.Duration
}

// CartService 购物车会话服务：每个会话一个已恢复的 cart.Store，同一会话的操作串行执行
type CartService struct {
	catalog  CatalogReader
	slot     cart.Slot
	provider checkout.Provider
	prefix   string
	idle     time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*cartSession
}

type cartSession struct {
	mu       sync.Mutex
	store    *cart.Store
	lastUsed time.Time
	refs     int
	degraded bool
}

// NewCartService 创建购物车服务
func NewCartService(c CatalogReader, slot cart.Slot, provider checkout.Provider, opts CartServiceOptions) *CartService {
	idle := opts.SessionIdle
	if idle <= 0 {
		idle = defaultCartSessionIdle
	}
	return &CartService{
		catalog:  c,
		slot:     slot,
		provider: provider,
		prefix:   strings.TrimSpace(opts.SlotPrefix),
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*cartSession),
	}
}

// View 查看购物车
func (s *CartService) View(ctx context.Context, sessionID string) (*CartView, error) {
	var view *CartView
	err := s.withSession(ctx, sessionID, func(sess *cartSession, warning string) error {
		view = s.buildView(sess.store, warning)
		return nil
	})
	return view, err
}

// AddItem 加购
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddCartItemInput) (*CartView, error) {
	productID := strings.TrimSpace(input.ProductID)
	product, ok := s.catalog.Product(productID)
	if !ok {
		return nil, ErrProductNotFound
	}
	key, err := s.variantKey(product, input)
	if err != nil {
		return nil, err
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	var view *CartView
	err = s.withSession(ctx, sessionID, func(sess *cartSession, warning string) error {
		_, err := sess.store.AddLine(ctx, productID, key, quantity)
		if warning, err = persistenceOutcome(warning, err); err != nil {
			return err
		}
		view = s.buildView(sess.store, warning)
		return nil
	})
	return view, err
}

// ChangeQuantity 调整指定行数量
func (s *CartService) ChangeQuantity(ctx context.Context, sessionID string, index, delta int) (*CartView, error) {
	var view *CartView
	err := s.withSession(ctx, sessionID, func(sess *cartSession, warning string) error {
		err := sess.store.ChangeQuantity(ctx, index, delta)
		if warning, err = persistenceOutcome(warning, err); err != nil {
			return err
		}
		view = s.buildView(sess.store, warning)
		return nil
	})
	return view, err
}

// RemoveItem 删除指定行
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, index int) (*CartView, error) {
	var view *CartView
	err := s.withSession(ctx, sessionID, func(sess *cartSession, warning string) error {
		err := sess.store.RemoveLine(ctx, index)
		if warning, err = persistenceOutcome(warning, err); err != nil {
			return err
		}
		view = s.buildView(sess.store, warning)
		return nil
	})
	return view, err
}

// Checkout 生成交接载荷并交给结算方；购物车内容保持不变
func (s *CartService) Checkout(ctx context.Context, sessionID string) (*CheckoutResult, error) {
	if s.provider == nil {
		return nil, ErrCheckoutUnavailable
	}
	var result *CheckoutResult
	err := s.withSession(ctx, sessionID, func(sess *cartSession, _ string) error {
		handoff, err := sess.store.BuildCheckoutHandoff()
		if err != nil {
			return err
		}
		session, err := s.provider.Checkout(ctx, sessionID, handoff)
		if err != nil {
			logger.Warnw("cart_checkout_failed", "cart_session", sessionID, "provider", s.provider.Name(), "error", err)
			return err
		}
		logger.Infow("cart_checkout_created",
			"cart_session", sessionID,
			"provider", session.Provider,
			"items", len(handoff.Items),
		)
		result = &CheckoutResult{
			Provider:  session.Provider,
			SessionID: session.ID,
			URL:       session.URL,
			Payload:   session.Payload,
		}
		return nil
	})
	return result, err
}

// EvictIdle 回收闲置会话，返回回收数量（持久化数据不受影响）
func (s *CartService) EvictIdle() int {
	cutoff := s.now().Add(-s.idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, sess := range s.sessions {
		if sess.refs == 0 && sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// ActiveSessions 内存中的会话数量
func (s *CartService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SlotKey 会话对应的持久化槽位 key
func (s *CartService) SlotKey(sessionID string) string {
	if s.prefix == "" {
		return sessionID
	}
	return s.prefix + ":" + sessionID
}

func (s *CartService) withSession(ctx context.Context, sessionID string, fn func(sess *cartSession, warning string) error) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || len(sessionID) > maxCartSessionIDLength {
		return ErrCartSessionRequired
	}
	sess := s.acquire(sessionID)
	defer s.release(sessionID, sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	warning := ""
	if !sess.store.Ready() {
		if err := sess.store.Hydrate(ctx); err != nil {
			// 读取失败时以空购物车继续，本会话释放后重新恢复
			logger.Warnw("cart_session_hydrate_failed", "cart_session", sessionID, "error", err)
			sess.degraded = true
			warning = persistenceWarning
		}
	}
	return fn(sess, warning)
}

func (s *CartService) acquire(sessionID string) *cartSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &cartSession{
			store: cart.NewStore(s.catalog, s.slot, s.SlotKey(sessionID), cart.WithLogger(logger.SW("cart_session", sessionID))),
		}
		s.sessions[sessionID] = sess
	}
	sess.refs++
	sess.lastUsed = s.now()
	return sess
}

func (s *CartService) release(sessionID string, sess *cartSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.refs--
	if sess.degraded && sess.refs == 0 && s.sessions[sessionID] == sess {
		delete(s.sessions, sessionID)
	}
}

// variantKey 规格 key：VariantKey 优先；按维度选择时每个维度都必须有值；都未给出时取唯一规格
func (s *CartService) variantKey(product catalog.Product, input AddCartItemInput) (string, error) {
	if key := strings.TrimSpace(input.VariantKey); key != "" {
		return key, nil
	}
	if len(input.Facets) > 0 {
		if !product.CompleteSelection(input.Facets) {
			return "", ErrVariantRequired
		}
		return s.catalog.Canonicalize(product.ID, input.Facets), nil
	}
	if key, ok := s.catalog.DefaultVariant(product.ID); ok {
		return key, nil
	}
	return "", ErrVariantRequired
}

func (s *CartService) buildView(store *cart.Store, warning string) *CartView {
	lines := store.Lines()
	view := &CartView{
		Lines:     make([]CartLineView, 0, len(lines)),
		ItemCount: store.TotalItemCount(),
		Total:     store.TotalPrice(),
		Warning:   warning,
	}
	for i, line := range lines {
		item := CartLineView{
			Index:        i,
			ProductID:    line.ProductID,
			VariantKey:   line.VariantKey,
			Name:         line.Name,
			VariantLabel: s.catalog.FormatVariantLabel(line.ProductID, line.VariantKey),
			Quantity:     line.Quantity,
		}
		if res, err := s.catalog.ResolveVariant(line.ProductID, line.VariantKey); err == nil {
			item.Name = res.DisplayName
			item.VariantLabel = res.VariantLabel
			item.ImageURL = res.ImageURL
			item.UnitPrice = res.UnitPrice
			item.Subtotal = res.UnitPrice.Times(line.Quantity)
			item.Available = true
		}
		view.Lines = append(view.Lines, item)
	}
	return view
}

// persistenceOutcome 持久化失败不算操作失败，转为提示
func persistenceOutcome(warning string, err error) (string, error) {
	if err == nil {
		return warning, nil
	}
	if errors.Is(err, cart.ErrPersistence) {
		return persistenceWarning, nil
	}
	return warning, err
}
