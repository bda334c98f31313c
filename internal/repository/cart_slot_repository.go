package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tallow-shop/storefront/internal/cart"
	"github.com/tallow-shop/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSlotRepository 购物车槽位数据访问接口
type CartSlotRepository interface {
	cart.Slot
	GetByKey(ctx context.Context, key string) (*models.CartSlot, error)
	DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error)
}

// GormCartSlotRepository GORM 实现（cart_slots 表，按 slot_key 覆盖写入）
type GormCartSlotRepository struct {
	db *gorm.DB
}

// NewCartSlotRepository 创建购物车槽位仓库
func NewCartSlotRepository(db *gorm.DB) *GormCartSlotRepository {
	return &GormCartSlotRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartSlotRepository) WithTx(tx *gorm.DB) *GormCartSlotRepository {
	if tx == nil {
		return r
	}
	return &GormCartSlotRepository{db: tx}
}

// GetByKey 获取槽位记录，不存在时返回 nil
func (r *GormCartSlotRepository) GetByKey(ctx context.Context, key string) (*models.CartSlot, error) {
	var slot models.CartSlot
	err := r.db.WithContext(ctx).Where("slot_key = ?", strings.TrimSpace(key)).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Load 读取槽位内容
func (r *GormCartSlotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	slot, err := r.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, cart.ErrSlotEmpty
	}
	return []byte(slot.Payload), nil
}

// Save 覆盖写入槽位
func (r *GormCartSlotRepository) Save(ctx context.Context, key string, payload []byte) error {
	lineCount := 0
	if lines, err := cart.Decode(payload); err == nil {
		lineCount = len(lines)
	}
	slot := &models.CartSlot{
		SlotKey:   strings.TrimSpace(key),
		Payload:   string(payload),
		LineCount: lineCount,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "line_count", "updated_at"}),
	}).Create(slot).Error
}

// DeleteUpdatedBefore 清理长时间未写入的槽位
func (r *GormCartSlotRepository) DeleteUpdatedBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("updated_at < ?", before).Delete(&models.CartSlot{})
	return result.RowsAffected, result.Error
}
