// Package errors 定义存储层共享的错误，内存实现与 PostgreSQL 实现均返回这些值。
package errors

import "errors"

var (
	// ErrNotFound 按 ID 或唯一键未找到记录
	ErrNotFound = errors.New("记录不存在")
	// ErrDuplicate 唯一键冲突（如规范化后的邮箱重复）
	ErrDuplicate = errors.New("记录已存在")
)
