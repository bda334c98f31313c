package cart

import (
	"strconv"
	"strings"
)

// HandoffItem 结算交接项
type HandoffItem struct {
	ExternalID string `json:"external_id"`
	Quantity   int    `json:"quantity"`
}

// Handoff 交给外部结算方的完整购物车载荷
type Handoff struct {
	Items []HandoffItem `json:"items"`
}

// String 编码为 externalId:quantity,externalId:quantity
func (h Handoff) String() string {
	pairs := make([]string, 0, len(h.Items))
	for _, item := range h.Items {
		pairs = append(pairs, item.ExternalID+":"+strconv.Itoa(item.Quantity))
	}
	return strings.Join(pairs, ",")
}
