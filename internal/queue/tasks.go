package queue

import (
	"encoding/json"
	"fmt"

	"github.com/tallow-shop/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskReviewSubmitted 新评价待审核通知任务
	TaskReviewSubmitted = constants.TaskReviewSubmitted
)

// ReviewSubmittedPayload 新评价任务载荷
type ReviewSubmittedPayload struct {
	ReviewID  uint   `json:"review_id"`
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
}

// NewReviewSubmittedTask 创建新评价任务
func NewReviewSubmittedTask(payload ReviewSubmittedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReviewSubmitted, body), nil
}

// ParseReviewSubmitted 解析新评价任务载荷
func ParseReviewSubmitted(task *asynq.Task) (ReviewSubmittedPayload, error) {
	var payload ReviewSubmittedPayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", task.Type(), err)
	}
	if payload.ReviewID == 0 {
		return payload, fmt.Errorf("decode %s payload: missing review_id", task.Type())
	}
	return payload, nil
}
