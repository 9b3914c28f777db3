package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"herois-da-vida/backend/internal/dto"
	"herois-da-vida/backend/internal/service"
	"herois-da-vida/backend/pkg/response"
)

// CampaignHandler 捐献活动模块 HTTP 处理器
type CampaignHandler struct {
	campaignSvc service.CampaignService
	debug       bool
}

// NewCampaignHandler 创建 CampaignHandler
func NewCampaignHandler(campaignSvc service.CampaignService, debug bool) *CampaignHandler {
	return &CampaignHandler{campaignSvc: campaignSvc, debug: debug}
}

// ListCampaigns 活动列表
// GET /api/campaigns
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	campaigns, total, err := h.campaignSvc.List(c.Request.Context())
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}

	response.OK(c, gin.H{"campaigns": campaigns, "total": total})
}

// GetCampaign 活动详情
// GET /api/campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaignSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}

	response.OK(c, gin.H{"campaign": campaign})
}

// CreateCampaign 创建活动（管理员）
// POST /api/campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateCampaignRequest
	if !bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignSvc.Create(c.Request.Context(), &req, identity)
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}

	response.Created(c, gin.H{"message": "活动创建成功", "campaign": campaign})
}

// UpdateCampaign 更新活动（创建者或管理员，Service 层鉴权）
// PUT /api/campaigns/:id
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCampaignRequest
	if !bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignSvc.Update(c.Request.Context(), id, &req, identity)
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "活动更新成功", "campaign": campaign})
}

// DeleteCampaign 删除活动（管理员）
// DELETE /api/campaigns/:id
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.campaignSvc.Delete(c.Request.Context(), id, identity); err != nil {
		h.handleCampaignError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "活动删除成功"})
}

// JoinCampaign 参与活动
// POST /api/campaigns/:id/join
func (h *CampaignHandler) JoinCampaign(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaignSvc.Join(c.Request.Context(), id, identity)
	if err != nil {
		h.handleCampaignError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "参与活动成功", "campaign": campaign})
}

func (h *CampaignHandler) handleCampaignError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCampaignNotFound):
		response.NotFound(c, response.CodeCampaignNotFound, "活动不存在")
	case errors.Is(err, service.ErrAlreadyParticipant):
		response.Conflict(c, response.CodeAlreadyJoined, "已参与该活动")
	case errors.Is(err, service.ErrCampaignNotActive):
		response.BadRequest(c, response.CodeCampaignClosed, "活动未开放参与")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, response.CodeForbidden, "无权操作")
	default:
		internalError(c, err, h.debug)
	}
}
