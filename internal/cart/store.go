package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/tallow-shop/storefront/internal/catalog"
	"github.com/tallow-shop/storefront/internal/constants"
	"github.com/tallow-shop/storefront/internal/logger"
	"github.com/tallow-shop/storefront/internal/models"

	"go.uber.org/zap"
)

var (
	// ErrVariantNotFound 商品规格不存在（与目录错误相同，便于 errors.Is 判断）
	ErrVariantNotFound = catalog.ErrVariantNotFound
	// ErrIndexOutOfRange 购物车行下标越界
	ErrIndexOutOfRange = errors.New("cart line index out of range")
	// ErrEmptyCart 购物车为空，无法结算
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPersistence 持久化读写失败（内存状态仍然有效）
	ErrPersistence = errors.New("cart persistence failed")
	// ErrInvalidQuantity 加购数量必须为正数，且单行数量不超过上限
	ErrInvalidQuantity = errors.New("cart quantity out of range")
	// ErrNotReady 购物车尚未完成恢复
	ErrNotReady = errors.New("cart not hydrated")
)

// Option 购物车可选配置
type Option func(*Store)

// WithLogger 指定日志实例
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Store 单个购物车（内存为准，每次变更后整体写回槽位）
type Store struct {
	resolver catalog.Resolver
	slot     Slot
	key      string
	log      *zap.SugaredLogger
	lines    []Line
	ready    bool
}

// NewStore 创建购物车，调用方需先 Hydrate
func NewStore(resolver catalog.Resolver, slot Slot, key string, opts ...Option) *Store {
	s := &Store{
		resolver: resolver,
		slot:     slot,
		key:      key,
		log:      logger.S(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("cart_slot", key)
	return s
}

// Hydrate 从槽位恢复购物车；数据缺失或损坏时以空购物车就绪
func (s *Store) Hydrate(ctx context.Context) error {
	s.lines = nil
	s.ready = true

	payload, err := s.slot.Load(ctx, s.key)
	if errors.Is(err, ErrSlotEmpty) {
		return nil
	}
	if err != nil {
		s.log.Warnw("cart_hydrate_read_failed", "error", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	lines, err := Decode(payload)
	if err != nil {
		s.log.Warnw("cart_hydrate_discard_malformed", "error", err, "payload_bytes", len(payload))
		return nil
	}
	s.lines = lines
	return nil
}

// Persist 将当前全部行覆盖写入槽位
func (s *Store) Persist(ctx context.Context) error {
	if !s.ready {
		return ErrNotReady
	}
	payload, err := Encode(s.lines)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.slot.Save(ctx, s.key, payload); err != nil {
		s.log.Errorw("cart_persist_failed", "error", err, "lines", len(s.lines))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// AddLine 加购：已存在的组合累加数量，否则追加到末尾；返回当前行数
func (s *Store) AddLine(ctx context.Context, productID, variantKey string, quantity int) (int, error) {
	if !s.ready {
		return 0, ErrNotReady
	}
	if quantity <= 0 || quantity > constants.CartMaxLineQuantity {
		return len(s.lines), ErrInvalidQuantity
	}
	res, err := s.resolver.ResolveVariant(productID, variantKey)
	if err != nil {
		return len(s.lines), fmt.Errorf("%w: product=%s variant=%s", ErrVariantNotFound, productID, variantKey)
	}

	if idx := s.find(productID, variantKey); idx >= 0 {
		next, ok := addQuantity(s.lines[idx].Quantity, quantity)
		if !ok {
			return len(s.lines), fmt.Errorf("%w: line %d would exceed %d", ErrInvalidQuantity, idx, constants.CartMaxLineQuantity)
		}
		s.lines[idx].Quantity = next
	} else {
		s.lines = append(s.lines, Line{
			ProductID:  productID,
			VariantKey: variantKey,
			Quantity:   quantity,
			Name:       res.DisplayName,
		})
	}
	return len(s.lines), s.Persist(ctx)
}

// ChangeQuantity 调整数量；结果小于等于 0 时删除该行，超过上限时不修改
func (s *Store) ChangeQuantity(ctx context.Context, index, delta int) error {
	if !s.ready {
		return ErrNotReady
	}
	if index < 0 || index >= len(s.lines) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	next, ok := addQuantity(s.lines[index].Quantity, delta)
	if !ok {
		return fmt.Errorf("%w: line %d would exceed %d", ErrInvalidQuantity, index, constants.CartMaxLineQuantity)
	}
	if next <= 0 {
		s.lines = append(s.lines[:index], s.lines[index+1:]...)
	} else {
		s.lines[index].Quantity = next
	}
	return s.Persist(ctx)
}

// RemoveLine 删除指定行
func (s *Store) RemoveLine(ctx context.Context, index int) error {
	if !s.ready {
		return ErrNotReady
	}
	if index < 0 || index >= len(s.lines) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.lines = append(s.lines[:index], s.lines[index+1:]...)
	return s.Persist(ctx)
}

// Lines 返回当前行的副本
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len 行数
func (s *Store) Len() int {
	return len(s.lines)
}

// Ready 是否已完成恢复
func (s *Store) Ready() bool {
	return s.ready
}

// TotalItemCount 商品总件数
func (s *Store) TotalItemCount() int {
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice 总价：每次按目录当前价格重新计算，无法解析的行按 0 计
func (s *Store) TotalPrice() models.Money {
	total := models.Money{}
	for _, line := range s.lines {
		res, err := s.resolver.ResolveVariant(line.ProductID, line.VariantKey)
		if err != nil {
			s.log.Debugw("cart_total_skip_unresolved", "product_id", line.ProductID, "variant_key", line.VariantKey)
			continue
		}
		total = total.Plus(res.UnitPrice.Times(line.Quantity))
	}
	return total
}

// BuildCheckoutHandoff 生成结算交接载荷
func (s *Store) BuildCheckoutHandoff() (Handoff, error) {
	if !s.ready {
		return Handoff{}, ErrNotReady
	}
	if len(s.lines) == 0 {
		return Handoff{}, ErrEmptyCart
	}
	items := make([]HandoffItem, 0, len(s.lines))
	for _, line := range s.lines {
		res, err := s.resolver.ResolveVariant(line.ProductID, line.VariantKey)
		if err != nil || res.ExternalID == "" {
			return Handoff{}, fmt.Errorf("%w: product=%s variant=%s", ErrVariantNotFound, line.ProductID, line.VariantKey)
		}
		items = append(items, HandoffItem{ExternalID: res.ExternalID, Quantity: line.Quantity})
	}
	return Handoff{Items: items}, nil
}

// addQuantity 累加数量；超过单行上限时返回 false（不会溢出）
func addQuantity(current, delta int) (int, bool) {
	if delta > 0 && delta > constants.CartMaxLineQuantity-current {
		return current, false
	}
	if delta < 0 && current+delta > current {
		return current, false
	}
	return current + delta, true
}

func (s *Store) find(productID, variantKey string) int {
	for i, line := range s.lines {
		if line.sameItem(productID, variantKey) {
			return i
		}
	}
	return -1
}
