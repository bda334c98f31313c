package constants

// 评价状态常量
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
)

// 评价评分范围
const (
	ReviewRatingMin = 1
	ReviewRatingMax = 5
)

// 购物车常量
const (
	CartMaxLineQuantity = 999
)

// 搜索常量
const (
	SearchMinQueryLength = 2
)

// 请求上下文键
const (
	ContextKeyRequestID   = "request_id"
	ContextKeyCartSession = "cart_session"
	HeaderRequestID       = "X-Request-ID"
)

// 队列常量
const (
	QueueDefault        = "default"
	QueueCritical       = "critical"
	TaskReviewSubmitted = "review:submitted"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "tallow"
	CartSlotKeyDefault = "cart"
)
