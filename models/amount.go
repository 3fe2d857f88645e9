package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale 金额小数位数
const AmountScale = 2

// maxAmount DECIMAL(10,2) 可表示的上限（不含）
var maxAmount = decimal.New(1, 8)

// Amount 金额，内部使用十进制定点数，避免浮点误差
// JSON 输出固定两位小数的字符串，例如 "12.50"
type Amount struct {
	decimal.Decimal
}

// NewAmount 由 decimal 构造金额
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// ParseAmount 解析字符串金额
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d}, nil
}

// MustAmount 解析金额，失败 panic（仅用于常量和测试）
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Valid 金额必须为正且不超过 DECIMAL(10,2) 的范围
func (a Amount) Valid() bool {
	r := a.Round(AmountScale)
	return r.IsPositive() && r.LessThan(maxAmount)
}

// Normalize 四舍五入到两位小数
func (a Amount) Normalize() Amount {
	return Amount{Decimal: a.Round(AmountScale)}
}

// Add 金额相加
func (a Amount) Add(b Amount) Amount {
	return Amount{Decimal: a.Decimal.Add(b.Decimal)}
}

// String 固定两位小数
func (a Amount) String() string {
	return a.StringFixed(AmountScale)
}

// MarshalJSON 输出为带两位小数的字符串
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON 同时接受数字和数字字符串
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	d, err := decimal.NewFromString(string(bytes.TrimSpace(data)))
	if err != nil {
		return fmt.Errorf("无效的金额: %s", string(data))
	}
	a.Decimal = d
	return nil
}

// Value 以字符串写入，保持精度
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan 读取 DECIMAL 列
func (a *Amount) Scan(value interface{}) error {
	if value == nil {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.Scan(value)
}
