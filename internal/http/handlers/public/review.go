package public

import (
	"github.com/tallow-shop/storefront/internal/constants"
	"github.com/tallow-shop/storefront/internal/http/response"
	"github.com/tallow-shop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitReviewRequest 提交评价请求
type SubmitReviewRequest struct {
	ProductID  string `json:"product_id"`
	AuthorName string `json:"author_name"`
	Email      string `json:"email"`
	Rating     int    `json:"rating"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}

// SubmitReview 提交评价，审核通过后展示
func (h *Handler) SubmitReview(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}
	review, err := h.ReviewService.Submit(service.SubmitReviewInput{
		ProductID:  req.ProductID,
		AuthorName: req.AuthorName,
		Email:      req.Email,
		Rating:     req.Rating,
		Title:      req.Title,
		Body:       req.Body,
	})
	if err != nil {
		respondWithMappedError(c, err, reviewSubmitErrorRules, response.CodeInternal, "review submit failed")
		return
	}
	response.Success(c, gin.H{
		"id":     review.ID,
		"status": constants.ReviewStatusPending,
	})
}
