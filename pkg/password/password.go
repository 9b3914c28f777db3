// Package password 提供基于 bcrypt 的加盐自适应密码哈希。
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost 默认哈希成本（2^12 轮）
const DefaultCost = 12

// MaxBytes bcrypt 可处理的明文最大字节数
const MaxBytes = 72

// ErrHashFailed 哈希失败（如随机源不可用），调用方必须中止请求
var ErrHashFailed = errors.New("密码哈希失败")

// Hasher 密码哈希器
type Hasher struct {
	cost int
}

// NewHasher 创建 Hasher；cost 不在 bcrypt 允许范围内时回退到 DefaultCost
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Cost 返回当前哈希成本
func (h *Hasher) Cost() int { return h.cost }

// Hash 生成自描述的 bcrypt 摘要，每次调用使用新的随机盐
func (h *Hasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashFailed, err)
	}
	return string(digest), nil
}

// Verify 校验明文与摘要是否匹配；摘要格式错误时返回 false
// bcrypt 内部使用 subtle.ConstantTimeCompare 比较
func (h *Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
