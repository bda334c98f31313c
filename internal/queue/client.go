package queue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tallow-shop/storefront/internal/config"
	"github.com/tallow-shop/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 评价审核通知所在队列
	DefaultQueue = constants.QueueDefault

	reviewNotifyMaxRetry = 3
	defaultConcurrency   = 10
)

// Client 评价审核通知的投递端；队列未启用时所有投递为空操作
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient 按队列配置创建投递端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{queue: DefaultQueue}, nil
	}
	return &Client{
		client: asynq.NewClient(buildRedisOpt(cfg)),
		queue:  DefaultQueue,
	}, nil
}

// Enabled 队列是否可投递
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭与队列 Redis 的连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueReviewSubmitted 投递新评价审核通知；同一评价只投递一次
func (c *Client) EnqueueReviewSubmitted(payload ReviewSubmittedPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewReviewSubmittedTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, reviewTaskOptions(c.queue, payload.ReviewID, opts...)...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// reviewTaskOptions 审核通知的投递参数，调用方参数追加在后可覆盖默认值
func reviewTaskOptions(queue string, reviewID uint, extra ...asynq.Option) []asynq.Option {
	options := []asynq.Option{
		asynq.Queue(queue),
		asynq.MaxRetry(reviewNotifyMaxRetry),
		asynq.TaskID(TaskReviewSubmitted + ":" + strconv.FormatUint(uint64(reviewID), 10)),
	}
	return append(options, extra...)
}

// BuildServerConfig 审核 worker 的 Redis 连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return buildRedisOpt(cfg), serverCfg
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
