package service

import (
	"herois-da-vida/backend/internal/access"
	"herois-da-vida/backend/internal/dto"
	"herois-da-vida/backend/internal/model"
)

// ── 资源投影 ──
//
// 所有对外返回的用户数据都经过这里，密码摘要永不出现在投影结果中。

// toUserResponse 完整脱敏投影
func toUserResponse(u *model.User) dto.UserResponse {
	organs := []string(u.DonatedOrgans)
	if organs == nil {
		organs = []string{}
	}
	return dto.UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		IsDonor:       u.IsDonor,
		DonatedOrgans: organs,
		CreatedAt:     u.CreatedAt,
		LastLogin:     u.LastLogin,
	}
}

// toUserPublic 精简投影
func toUserPublic(u *model.User) dto.UserPublicResponse {
	return dto.UserPublicResponse{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role,
		IsDonor:   u.IsDonor,
		CreatedAt: u.CreatedAt,
	}
}

// ProjectUser 单条用户读取投影：管理员或本人得到完整信息，其余得到精简信息
func ProjectUser(u *model.User, viewer access.Identity) interface{} {
	if access.CanAccessOwned(viewer, u.ID) {
		return toUserResponse(u)
	}
	return toUserPublic(u)
}

// ProjectUserList 用户列表投影：管理员得到完整信息，其余调用者每条记录均为精简信息
// 本人的完整信息通过 /auth/me 或 /users/:id 获取
func ProjectUserList(users []model.User, viewer access.Identity) []interface{} {
	result := make([]interface{}, 0, len(users))
	for i := range users {
		if viewer.IsAdmin() {
			result = append(result, toUserResponse(&users[i]))
		} else {
			result = append(result, toUserPublic(&users[i]))
		}
	}
	return result
}

// ProjectCampaign 活动投影
// users 为 ID → 用户的索引，创建者不存在时 Creator 为 nil
func ProjectCampaign(c *model.Campaign, users map[int64]*model.User) dto.CampaignResponse {
	participants := []int64(c.Participants)
	if participants == nil {
		participants = []int64{}
	}

	var creator *dto.UserSummary
	if u, ok := users[c.CreatedBy]; ok {
		creator = &dto.UserSummary{ID: u.ID, Name: u.Name}
	}

	return dto.CampaignResponse{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		TargetOrgan:      c.TargetOrgan,
		Goal:             c.Goal,
		Current:          c.Current,
		Status:           c.Status,
		CreatedBy:        c.CreatedBy,
		Creator:          creator,
		CreatedAt:        c.CreatedAt,
		Participants:     participants,
		ParticipantCount: len(participants),
	}
}
