package repository

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/tallow-shop/storefront/internal/models"

	"gorm.io/gorm"
)

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID string
}

// ReviewRatingStats 评分汇总
type ReviewRatingStats struct {
	Count int64
	Sum   int64
}

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id uint) (*models.Review, error)
	ListApproved(filter ReviewListFilter) ([]models.Review, int64, error)
	ListPending(limit int) ([]models.Review, error)
	CountPending() (int64, error)
	Approve(id uint, at time.Time) error
	RatingStats(productID string) (ReviewRatingStats, error)
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) *GormReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// GetByID 根据 ID 获取评价
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// ListApproved 已审核评价列表（最新在前）
func (r *GormReviewRepository) ListApproved(filter ReviewListFilter) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{}).Where("approved = ?", true)
	if productID := strings.TrimSpace(filter.ProductID); productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	query = query.Scopes(reviewPage(filter.Page, filter.PageSize))
	if err := query.Order("created_at desc").Order("id desc").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListPending 待审核评价（最早在前）
func (r *GormReviewRepository) ListPending(limit int) ([]models.Review, error) {
	query := r.db.Where("approved = ?", false).Order("created_at asc").Order("id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// CountPending 待审核数量
func (r *GormReviewRepository) CountPending() (int64, error) {
	var total int64
	err := r.db.Model(&models.Review{}).Where("approved = ?", false).Count(&total).Error
	return total, err
}

// Approve 审核通过
func (r *GormReviewRepository) Approve(id uint, at time.Time) error {
	result := r.db.Model(&models.Review{}).Where("id = ?", id).Updates(map[string]interface{}{
		"approved":    true,
		"approved_at": at,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RatingStats 已审核评价的数量与评分总和
func (r *GormReviewRepository) RatingStats(productID string) (ReviewRatingStats, error) {
	var stats ReviewRatingStats
	query := r.db.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("approved = ?", true)
	if productID = strings.TrimSpace(productID); productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	if err := query.Scan(&stats).Error; err != nil {
		return ReviewRatingStats{}, err
	}
	return stats, nil
}

// reviewPage 评价分页；pageSize <= 0 返回全部，页码过大时返回空页
func reviewPage(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		offset := math.MaxInt32
		if page-1 <= math.MaxInt32/pageSize {
			offset = (page - 1) * pageSize
		}
		return db.Limit(pageSize).Offset(offset)
	}
}
