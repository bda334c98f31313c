package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tallow-shop/storefront/internal/constants"
	"github.com/tallow-shop/storefront/internal/logger"
	"github.com/tallow-shop/storefront/internal/models"
	"github.com/tallow-shop/storefront/internal/queue"
	"github.com/tallow-shop/storefront/internal/repository"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	reviewAuthorMaxLength = 100
	reviewTitleMaxLength  = 255
	reviewBodyMaxLength   = 5000
)

// ReviewNotifier 新评价通知（队列客户端实现）
type ReviewNotifier interface {
	EnqueueReviewSubmitted(payload queue.ReviewSubmittedPayload, opts ...asynq.Option) error
}

// SubmitReviewInput 提交评价输入
type SubmitReviewInput struct {
	ProductID  string
	AuthorName string
	Email      string
	Rating     int
	Title      string
	Body       string
}

// ReviewSummary 评分汇总
type ReviewSummary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// ReviewService 评价服务（提交后需审核才对外展示）
type ReviewService struct {
	repo     repository.ReviewRepository
	catalog  CatalogReader
	notifier ReviewNotifier
	now      func() time.Time
}

// NewReviewService 创建评价服务
func NewReviewService(repo repository.ReviewRepository, c CatalogReader, notifier ReviewNotifier) *ReviewService {
	return &ReviewService{
		repo:     repo,
		catalog:  c,
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit 提交评价，保存为待审核并推送审核通知
func (s *ReviewService) Submit(input SubmitReviewInput) (*models.Review, error) {
	review, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(review); err != nil {
		return nil, err
	}
	logger.Infow("review_submitted", "review_id", review.ID, "product_id", review.ProductID, "rating", review.Rating)

	if s.notifier != nil {
		payload := queue.ReviewSubmittedPayload{
			ReviewID:  review.ID,
			ProductID: review.ProductID,
			Rating:    review.Rating,
		}
		if err := s.notifier.EnqueueReviewSubmitted(payload); err != nil {
			logger.Warnw("review_enqueue_notify_failed", "review_id", review.ID, "error", err)
		}
	}
	return review, nil
}

// ListApproved 已审核评价
func (s *ReviewService) ListApproved(productID string, page, pageSize int) ([]models.Review, int64, error) {
	return s.repo.ListApproved(repository.ReviewListFilter{
		ProductID: strings.TrimSpace(productID),
		Page:      page,
		PageSize:  pageSize,
	})
}

// AverageRating 已审核评价平均分（保留 1 位小数，无评价为 0）
func (s *ReviewService) AverageRating(productID string) (ReviewSummary, error) {
	stats, err := s.repo.RatingStats(productID)
	if err != nil {
		return ReviewSummary{}, err
	}
	if stats.Count == 0 {
		return ReviewSummary{}, nil
	}
	avg := decimal.NewFromInt(stats.Sum).Div(decimal.NewFromInt(stats.Count)).Round(1)
	return ReviewSummary{Count: stats.Count, Average: avg.InexactFloat64()}, nil
}

// ListPending 待审核评价
func (s *ReviewService) ListPending(limit int) ([]models.Review, error) {
	return s.repo.ListPending(limit)
}

// CountPending 待审核数量
func (s *ReviewService) CountPending() (int64, error) {
	return s.repo.CountPending()
}

// Get 获取评价
func (s *ReviewService) Get(id uint) (*models.Review, error) {
	review, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// Approve 审核通过
func (s *ReviewService) Approve(id uint) error {
	if err := s.repo.Approve(id, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	logger.Infow("review_approved", "review_id", id)
	return nil
}

func (s *ReviewService) normalize(input SubmitReviewInput) (*models.Review, error) {
	if input.Rating < constants.ReviewRatingMin || input.Rating > constants.ReviewRatingMax {
		return nil, ErrReviewRatingInvalid
	}
	author := strings.TrimSpace(input.AuthorName)
	if author == "" {
		return nil, ErrReviewAuthorRequired
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, ErrReviewBodyRequired
	}
	title := strings.TrimSpace(input.Title)
	if err := checkLength("author_name", author, reviewAuthorMaxLength); err != nil {
		return nil, err
	}
	if err := checkLength("title", title, reviewTitleMaxLength); err != nil {
		return nil, err
	}
	if err := checkLength("body", body, reviewBodyMaxLength); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			return nil, ErrReviewEmailInvalid
		}
		email = strings.ToLower(addr.Address)
	}

	review := &models.Review{
		AuthorName: author,
		Email:      email,
		Rating:     input.Rating,
		Title:      title,
		Body:       body,
	}
	if productID := strings.TrimSpace(input.ProductID); productID != "" {
		product, ok := s.catalog.Product(productID)
		if !ok {
			return nil, ErrProductNotFound
		}
		review.ProductID = product.ID
		review.ProductName = product.Name
	}
	return review, nil
}

func checkLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrReviewFieldTooLong, field, limit)
	}
	return nil
}
