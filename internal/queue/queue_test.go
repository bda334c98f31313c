package queue

import (
	"testing"

	"github.com/tallow-shop/storefront/internal/config"

	"github.com/hibiken/asynq"
)

func TestReviewSubmittedTaskRoundTrip(t *testing.T) {
	task, err := NewReviewSubmittedTask(ReviewSubmittedPayload{ReviewID: 7, ProductID: "beard-balm", Rating: 5})
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if task.Type() != TaskReviewSubmitted {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseReviewSubmitted(task)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if payload.ReviewID != 7 || payload.ProductID != "beard-balm" || payload.Rating != 5 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestParseReviewSubmittedRejectsBadPayload(t *testing.T) {
	if _, err := ParseReviewSubmitted(asynq.NewTask(TaskReviewSubmitted, []byte("{"))); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := ParseReviewSubmitted(asynq.NewTask(TaskReviewSubmitted, []byte(`{"rating":4}`))); err == nil {
		t.Fatalf("expected missing review id error")
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueReviewSubmitted(ReviewSubmittedPayload{ReviewID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

func TestReviewTaskOptions(t *testing.T) {
	options := reviewTaskOptions(DefaultQueue, 42, asynq.MaxRetry(0))
	var (
		queueName string
		taskID    string
		retries   []int
	)
	for _, opt := range options {
		switch opt.Type() {
		case asynq.QueueOpt:
			queueName = opt.Value().(string)
		case asynq.TaskIDOpt:
			taskID = opt.Value().(string)
		case asynq.MaxRetryOpt:
			retries = append(retries, opt.Value().(int))
		}
	}
	if queueName != DefaultQueue {
		t.Fatalf("unexpected queue: %s", queueName)
	}
	if taskID != "review:submitted:42" {
		t.Fatalf("unexpected task id: %s", taskID)
	}
	if len(retries) != 2 || retries[0] != 3 || retries[1] != 0 {
		t.Fatalf("caller options should follow defaults: %v", retries)
	}
}

func TestBuildServerConfigFromQueueConfig(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{
		Host:        " redis.internal ",
		Password:    "secret",
		DB:          2,
		Concurrency: 3,
		Queues:      map[string]int{"default": 4},
	})
	if opt.Addr != "redis.internal:6379" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 3 || cfg.Queues["default"] != 4 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
