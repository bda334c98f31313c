package public

import (
	"errors"
	"strings"

	"github.com/tallow-shop/storefront/internal/catalog"
	handlershared "github.com/tallow-shop/storefront/internal/http/handlers/shared"
	"github.com/tallow-shop/storefront/internal/http/response"
	"github.com/tallow-shop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	response.Success(c, gin.H{"products": h.CatalogService.List()})
}

// SearchProducts 搜索商品；关键词过短时返回空列表
func (h *Handler) SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	products, err := h.SearchService.Search(query)
	if err != nil && !errors.Is(err, service.ErrSearchQueryTooShort) {
		respondError(c, response.CodeInternal, "search failed", err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	response.Success(c, gin.H{
		"query":    query,
		"products": products,
	})
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	detail, err := h.CatalogService.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.Success(c, detail)
}

// ListProductReviews 商品已审核评价及评分汇总
func (h *Handler) ListProductReviews(c *gin.Context) {
	productID := c.Param("id")
	if _, err := h.CatalogService.Get(productID); err != nil {
		respondError(c, response.CodeNotFound, "product not found", nil)
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	reviews, total, err := h.ReviewService.ListApproved(productID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "review fetch failed", err)
		return
	}
	summary, err := h.ReviewService.AverageRating(productID)
	if err != nil {
		respondError(c, response.CodeInternal, "review fetch failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{
		"reviews": reviews,
		"summary": summary,
	}, response.NewPagination(page, pageSize, total))
}
