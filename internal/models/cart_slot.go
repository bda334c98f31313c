package models

import "time"

// CartSlot 购物车持久化槽位（每个购物车会话一行，整体覆盖写入）
type CartSlot struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                   // 主键
	SlotKey   string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"slot_key"` // 槽位 key（前缀 + 会话ID）
	Payload   string    `gorm:"type:text;not null" json:"payload"`                      // 序列化后的购物车行
	LineCount int       `gorm:"not null;default:0" json:"line_count"`                   // 行数（便于排查）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                // 最后写入时间
}

// TableName 指定表名
func (CartSlot) TableName() string {
	return "cart_slots"
}
