package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tallow-shop/storefront/internal/constants"
)

// ErrMalformedState 持久化数据无法解析
var ErrMalformedState = errors.New("cart persisted state malformed")

// Encode 序列化购物车行（保持顺序）
func Encode(lines []Line) ([]byte, error) {
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(lines)
}

// Decode 反序列化购物车行；重复的 (商品, 规格) 合并到首次出现的位置
func Decode(payload []byte) ([]Line, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var records []Line
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	lines := make([]Line, 0, len(records))
	for i, record := range records {
		if strings.TrimSpace(record.ProductID) == "" || strings.TrimSpace(record.VariantKey) == "" {
			return nil, fmt.Errorf("%w: record %d missing product or variant", ErrMalformedState, i)
		}
		if record.Quantity <= 0 || record.Quantity > constants.CartMaxLineQuantity {
			return nil, fmt.Errorf("%w: record %d quantity %d", ErrMalformedState, i, record.Quantity)
		}
		merged := false
		for j := range lines {
			if lines[j].sameItem(record.ProductID, record.VariantKey) {
				total, ok := addQuantity(lines[j].Quantity, record.Quantity)
				if !ok {
					return nil, fmt.Errorf("%w: record %d merged quantity exceeds %d", ErrMalformedState, i, constants.CartMaxLineQuantity)
				}
				lines[j].Quantity = total
				merged = true
				break
			}
		}
		if !merged {
			lines = append(lines, record)
		}
	}
	return lines, nil
}
