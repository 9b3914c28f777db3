package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// ── PostgreSQL 数组自定义类型 ──

// Int64Array 对应 PostgreSQL INT8[] 类型，实现 GORM Scanner/Valuer 接口。
type Int64Array []int64

// Scan 将 PostgreSQL 返回的 {1,2,3} 文本解析为 []int64。
func (a *Int64Array) Scan(src interface{}) error {
	s, err := arrayText(src)
	if err != nil {
		return fmt.Errorf("Int64Array.Scan: %w", err)
	}
	if s == "" {
		*a = Int64Array{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(Int64Array, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return fmt.Errorf("Int64Array.Scan: invalid element %q: %w", p, err)
		}
		arr = append(arr, n)
	}
	*a = arr
	return nil
}

// Value 将 []int64 序列化为 PostgreSQL {1,2,3} 文本。
func (a Int64Array) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	parts := make([]string, len(a))
	for i, n := range a {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Contains 判断是否包含 id
func (a Int64Array) Contains(id int64) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

// StringArray 对应 PostgreSQL TEXT[] 类型。
// 元素仅限枚举值（器官名称），不含逗号、引号与花括号。
type StringArray []string

// Scan 将 {a,b} 文本解析为 []string。
func (a *StringArray) Scan(src interface{}) error {
	s, err := arrayText(src)
	if err != nil {
		return fmt.Errorf("StringArray.Scan: %w", err)
	}
	if s == "" {
		*a = StringArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(StringArray, 0, len(parts))
	for _, p := range parts {
		arr = append(arr, strings.Trim(strings.TrimSpace(p), `"`))
	}
	*a = arr
	return nil
}

// Value 将 []string 序列化为 {a,b} 文本。
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	return "{" + strings.Join(a, ",") + "}", nil
}

func arrayText(src interface{}) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case []byte:
		return strings.Trim(string(v), "{}"), nil
	case string:
		return strings.Trim(v, "{}"), nil
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}
