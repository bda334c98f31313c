package public

import "github.com/tallow-shop/storefront/internal/provider"

// Handler 店铺前台接口处理器入口
// 说明：无登录体系，购物车按 cookie 会话区分。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
