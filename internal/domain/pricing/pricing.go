// Package pricing 订单金额口径
//
// 设计说明:
// 税费公式只写在这一个地方。购物车页和结算页都要展示
// "小计/税费/总计"三行,如果两边各算各的,迟早出现一分钱的差异。
package pricing

import "fmt"

// TaxRateBasisPoints 税率(万分数):1000 = 10%
// 使用整数运算,避免0.1的二进制表示误差污染金额
const TaxRateBasisPoints int64 = 1000

// Summary 金额汇总(单位均为分)
type Summary struct {
	Subtotal int64 `json:"subtotal"` // 税前小计
	Tax      int64 `json:"tax"`      // 税费 = 小计 × 10%
	Total    int64 `json:"total"`    // 总计 = 小计 + 税费
}

// Summarize 由税前小计推出完整金额汇总
// 教学要点:tax = subtotal × 1000 / 10000,整数除法向零取整
// 例:小计1500(15.00) → 税费150(1.50) → 总计1650(16.50)
func Summarize(subtotal int64) Summary {
	tax := subtotal * TaxRateBasisPoints / 10000
	return Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// FormatUSD 格式化金额(分→美元字符串)
// 例:1999 → "19.99"
func FormatUSD(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
