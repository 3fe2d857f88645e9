package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout 日期格式
	DateLayout = "2006-01-02"
	// MonthLayout 月份格式
	MonthLayout = "2006-01"
)

// Date 不含时间部分的日历日期，统一以 UTC 零点表示
type Date struct {
	time.Time
}

// NewDate 构造日期
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf 取 t 在其所在时区的日历日期
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("日期格式错误，应为: %s", DateLayout)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// YearMonth 日期所在月份
func (d Date) YearMonth() Month {
	return Month{Year: d.Year(), Month: d.Time.Month()}
}

// MarshalJSON 输出 "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON 接受 "YYYY-MM-DD"，也兼容带时间的 RFC3339
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("日期格式错误，应为: %s", DateLayout)
	}
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		*d = DateOf(t)
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value 写入 DATE 列
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan 读取 DATE 列（parseTime=True 时为 time.Time，否则为文本）
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("无法将 %T 转换为日期", value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Month 年月
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth 解析 YYYY-MM
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("月份格式错误，应为: %s", MonthLayout)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start 当月第一天
func (m Month) Start() Date {
	return NewDate(m.Year, m.Month, 1)
}

// Next 下月第一天，月份过滤使用 [Start, Next) 区间
func (m Month) Next() Date {
	return Date{Time: m.Start().AddDate(0, 1, 0)}
}

// Contains 日期是否落在该月
func (m Month) Contains(d Date) bool {
	return d.Year() == m.Year && d.Time.Month() == m.Month
}

// MarshalJSON 输出 "YYYY-MM"
func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}
