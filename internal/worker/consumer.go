package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/tallow-shop/storefront/internal/logger"
	"github.com/tallow-shop/storefront/internal/models"
	"github.com/tallow-shop/storefront/internal/queue"
	"github.com/tallow-shop/storefront/internal/service"

	"github.com/hibiken/asynq"
)

// ReviewModeration 消费者依赖的评价能力
type ReviewModeration interface {
	Get(id uint) (*models.Review, error)
	CountPending() (int64, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	Reviews ReviewModeration
}

// NewConsumer 创建消费者
func NewConsumer(reviews ReviewModeration) *Consumer {
	return &Consumer{Reviews: reviews}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReviewSubmitted, c.handleReviewSubmitted)
}

func (c *Consumer) handleReviewSubmitted(_ context.Context, task *asynq.Task) error {
	payload, err := queue.ParseReviewSubmitted(task)
	if err != nil {
		logger.Warnw("worker_review_submitted_payload_invalid", "error", err)
		// 载荷损坏重试无意义
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if c.Reviews == nil {
		logger.Warnw("worker_review_submitted_skip_service_nil", "review_id", payload.ReviewID)
		return nil
	}

	review, err := c.Reviews.Get(payload.ReviewID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			logger.Debugw("worker_review_submitted_skip_not_found", "review_id", payload.ReviewID)
			return nil
		}
		logger.Warnw("worker_review_submitted_fetch_failed", "review_id", payload.ReviewID, "error", err)
		return err
	}
	if review.Approved {
		logger.Debugw("worker_review_submitted_skip_approved", "review_id", review.ID)
		return nil
	}

	pending, err := c.Reviews.CountPending()
	if err != nil {
		logger.Warnw("worker_review_count_pending_failed", "review_id", review.ID, "error", err)
		return err
	}
	logger.Infow("review_pending_moderation",
		"review_id", review.ID,
		"product_id", review.ProductID,
		"product_name", review.ProductName,
		"rating", review.Rating,
		"author", review.AuthorName,
		"pending_total", pending,
	)
	return nil
}
