package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 商品评价
type Review struct {
	ID          uint           `gorm:"primarykey" json:"id"`                          // 主键
	ProductID   string         `gorm:"type:varchar(64);index" json:"product_id"`      // 商品标识（可为空，表示店铺评价）
	ProductName string         `gorm:"type:varchar(255)" json:"product_name"`         // 商品名称快照
	AuthorName  string         `gorm:"type:varchar(100);not null" json:"author_name"` // 评价人
	Email       string         `gorm:"type:varchar(255)" json:"-"`                    // 邮箱（不对外输出）
	Rating      int            `gorm:"not null" json:"rating"`                        // 评分 1-5
	Title       string         `gorm:"type:varchar(255)" json:"title"`                // 标题
	Body        string         `gorm:"type:text;not null" json:"body"`                // 内容
	Verified    bool           `gorm:"default:false" json:"verified"`                 // 是否已购买
	Approved    bool           `gorm:"default:false;index" json:"approved"`           // 是否审核通过
	ApprovedAt  *time.Time     `json:"approved_at,omitempty"`                         // 审核时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
