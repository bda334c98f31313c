package cart

// Line 购物车行：同一 (商品, 规格 key) 至多一行；持久化字段沿用 productId/variantId
type Line struct {
	ProductID  string `json:"productId"`
	VariantKey string `json:"variantId"`
	Quantity   int    `json:"quantity"`
	Name       string `json:"name"`
}

func (l Line) sameItem(productID, variantKey string) bool {
	return l.ProductID == productID && l.VariantKey == variantKey
}
