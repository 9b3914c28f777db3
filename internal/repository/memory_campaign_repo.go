package repository

import (
	"context"
	"sync"
	"time"

	"herois-da-vida/backend/internal/model"
	pkgerrors "herois-da-vida/backend/pkg/errors"
)

// memoryCampaignRepo CampaignRepository 的进程内存实现
type memoryCampaignRepo struct {
	mu        sync.RWMutex
	campaigns []*model.Campaign
	nextID    int64
	now       func() time.Time
}

// NewMemoryCampaignRepo 创建内存 CampaignRepository
func NewMemoryCampaignRepo() CampaignRepository {
	return &memoryCampaignRepo{nextID: 1, now: time.Now}
}

func (r *memoryCampaignRepo) Create(_ context.Context, campaign *model.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign.ID = r.nextID
	r.nextID++
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = r.now()
	}
	if campaign.Participants == nil {
		campaign.Participants = model.Int64Array{}
	}

	r.campaigns = append(r.campaigns, campaign.Clone())
	return nil
}

func (r *memoryCampaignRepo) GetByID(_ context.Context, id int64) (*model.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return r.campaigns[i].Clone(), nil
}

func (r *memoryCampaignRepo) List(_ context.Context) ([]model.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		result = append(result, *c.Clone())
	}
	return result, nil
}

func (r *memoryCampaignRepo) Update(_ context.Context, campaign *model.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(campaign.ID)
	if i < 0 {
		return pkgerrors.ErrNotFound
	}

	updated := campaign.Clone()
	updated.CreatedAt = r.campaigns[i].CreatedAt
	updated.CreatedBy = r.campaigns[i].CreatedBy
	updated.Participants = r.campaigns[i].Participants
	r.campaigns[i] = updated
	return nil
}

func (r *memoryCampaignRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return pkgerrors.ErrNotFound
	}
	r.campaigns = append(r.campaigns[:i], r.campaigns[i+1:]...)
	return nil
}

func (r *memoryCampaignRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.campaigns)), nil
}

func (r *memoryCampaignRepo) AddParticipant(_ context.Context, campaignID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(campaignID)
	if i < 0 {
		return pkgerrors.ErrNotFound
	}
	c := r.campaigns[i]
	if c.Participants.Contains(userID) {
		return pkgerrors.ErrDuplicate
	}
	c.Participants = append(c.Participants, userID)
	return nil
}

func (r *memoryCampaignRepo) indexOf(id int64) int {
	for i, c := range r.campaigns {
		if c.ID == id {
			return i
		}
	}
	return -1
}
