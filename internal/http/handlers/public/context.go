package public

import (
	"github.com/tallow-shop/storefront/internal/constants"
	handlershared "github.com/tallow-shop/storefront/internal/http/handlers/shared"
	"github.com/tallow-shop/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []response.ErrorRule, fallbackCode int, fallbackMsg string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackMsg)
}

// getCartSessionID 读取中间件写入的购物车会话
func getCartSessionID(c *gin.Context) (string, bool) {
	id := c.GetString(constants.ContextKeyCartSession)
	if id == "" {
		respondError(c, response.CodeBadRequest, "cart session missing", nil)
		return "", false
	}
	return id, true
}
