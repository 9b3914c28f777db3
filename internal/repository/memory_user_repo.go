package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"herois-da-vida/backend/internal/model"
	pkgerrors "herois-da-vida/backend/pkg/errors"
)

// memoryUserRepo UserRepository 的进程内存实现
// 按插入顺序保存，按 ID 线性查找；ID 单调递增，删除后不复用
type memoryUserRepo struct {
	mu     sync.RWMutex
	users  []*model.User
	nextID int64
	now    func() time.Time
}

// NewMemoryUserRepo 创建内存 UserRepository
func NewMemoryUserRepo() UserRepository {
	return &memoryUserRepo{nextID: 1, now: time.Now}
}

func (r *memoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	if r.indexOfEmail(user.Email, 0) >= 0 {
		return pkgerrors.ErrDuplicate
	}

	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now()
	}
	if user.DonatedOrgans == nil {
		user.DonatedOrgans = model.StringArray{}
	}

	r.users = append(r.users, user.Clone())
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return r.users[i].Clone(), nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOfEmail(email, 0)
	if i < 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return r.users[i].Clone(), nil
}

func (r *memoryUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, *u.Clone())
	}
	return result, nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(user.ID)
	if i < 0 {
		return pkgerrors.ErrNotFound
	}

	user.Email = strings.ToLower(user.Email)
	if r.indexOfEmail(user.Email, user.ID) >= 0 {
		return pkgerrors.ErrDuplicate
	}

	updated := user.Clone()
	updated.CreatedAt = r.users[i].CreatedAt
	updated.LastLogin = r.users[i].LastLogin
	r.users[i] = updated
	return nil
}

func (r *memoryUserRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return pkgerrors.ErrNotFound
	}
	r.users[i].LastLogin = &at
	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return pkgerrors.ErrNotFound
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

func (r *memoryUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

// indexOf 调用方须持有锁
func (r *memoryUserRepo) indexOf(id int64) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// indexOfEmail 忽略大小写查找邮箱，excludeID 对应的记录不参与比较。调用方须持有锁
func (r *memoryUserRepo) indexOfEmail(email string, excludeID int64) int {
	for i, u := range r.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return i
		}
	}
	return -1
}
