package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultSweepInterval = 5 * time.Minute

// IdleEvictor 回收闲置的内存购物车会话
type IdleEvictor interface {
	EvictIdle() int
}

// StaleSlotPurger 清理过期的持久化槽位
type StaleSlotPurger interface {
	DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error)
}

// CartSweeper 购物车后台清理服务
type CartSweeper struct {
	evictor   IdleEvictor
	purger    StaleSlotPurger
	retention time.Duration
	interval  time.Duration
	logger    *zap.SugaredLogger
	now       func() time.Time
	done      chan struct{}
}

// NewCartSweeper 创建清理服务；purger 为空或 retention<=0 时只回收内存会话
func NewCartSweeper(evictor IdleEvictor, purger StaleSlotPurger, retention, interval time.Duration, logger *zap.SugaredLogger) *CartSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CartSweeper{
		evictor:   evictor,
		purger:    purger,
		retention: retention,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Name 服务名称
func (s *CartSweeper) Name() string {
	return "cart-sweeper"
}

// Start 按周期执行清理，直到 ctx 结束或 Stop
func (s *CartSweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// Stop 停止服务
func (s *CartSweeper) Stop(ctx context.Context) error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return nil
}

// SweepOnce 执行一次清理
func (s *CartSweeper) SweepOnce(ctx context.Context) {
	if s.evictor != nil {
		if evicted := s.evictor.EvictIdle(); evicted > 0 {
			s.logger.Infow("cart_sessions_evicted", "count", evicted)
		}
	}
	if s.purger == nil || s.retention <= 0 {
		return
	}
	purged, err := s.purger.DeleteUpdatedBefore(ctx, s.now().Add(-s.retention))
	if err != nil {
		s.logger.Warnw("cart_slots_purge_failed", "error", err)
		return
	}
	if purged > 0 {
		s.logger.Infow("cart_slots_purged", "count", purged)
	}
}
