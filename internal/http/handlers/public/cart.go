package public

import (
	"strconv"

	"github.com/tallow-shop/storefront/internal/http/response"
	"github.com/tallow-shop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID  string   `json:"product_id" binding:"required"`
	VariantKey string   `json:"variant_key"`
	Facets     []string `json:"facets"`
	Quantity   int      `json:"quantity"`
}

// ChangeCartItemRequest 调整数量请求
type ChangeCartItemRequest struct {
	Delta int `json:"delta"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	view, err := h.CartService.View(c.Request.Context(), sessionID)
	if err != nil {
		respondWithMappedError(c, err, cartLineErrorRules, response.CodeInternal, "cart fetch failed")
		return
	}
	response.Success(c, view)
}

// AddCartItem 加购，已存在的同规格商品累加数量
func (h *Handler) AddCartItem(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}
	view, err := h.CartService.AddItem(c.Request.Context(), sessionID, service.AddCartItemInput{
		ProductID:  req.ProductID,
		VariantKey: req.VariantKey,
		Facets:     req.Facets,
		Quantity:   req.Quantity,
	})
	if err != nil {
		respondWithMappedError(c, err, cartAddErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, view)
}

// ChangeCartItem 调整指定行数量，减到 0 时删除
func (h *Handler) ChangeCartItem(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	index, ok := parseLineIndex(c)
	if !ok {
		return
	}
	var req ChangeCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}
	view, err := h.CartService.ChangeQuantity(c.Request.Context(), sessionID, index, req.Delta)
	if err != nil {
		respondWithMappedError(c, err, cartLineErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, view)
}

// DeleteCartItem 删除指定行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	index, ok := parseLineIndex(c)
	if !ok {
		return
	}
	view, err := h.CartService.RemoveItem(c.Request.Context(), sessionID, index)
	if err != nil {
		respondWithMappedError(c, err, cartLineErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, view)
}

// CheckoutCart 生成结算跳转，购物车内容保持不变
func (h *Handler) CheckoutCart(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	result, err := h.CartService.Checkout(c.Request.Context(), sessionID)
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "checkout failed")
		return
	}
	response.Success(c, result)
}

func parseLineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		respondError(c, response.CodeBadRequest, "invalid cart line index", nil)
		return 0, false
	}
	return index, true
}
