package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type MemberHandler struct {
	memberService     *service.MemberService
	membershipService *service.MembershipService
}

func NewMemberHandler(memberService *service.MemberService, membershipService *service.MembershipService) *MemberHandler {
	return &MemberHandler{
		memberService:     memberService,
		membershipService: membershipService,
	}
}

// List 会员列表
// GET /api/v1/members
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.memberService.List()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, members)
}

// Get 查询单个会员
// GET /api/v1/members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.ParamError(c, "invalid member id")
		return
	}

	requesterID, requesterRole, ok := requester(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	member, err := h.memberService.Get(id, requesterID, requesterRole)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.PermissionError(c, "")
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, member)
}

// Create 创建会员
// POST /api/v1/members
func (h *MemberHandler) Create(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.ConflictError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidDateRange):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Created(c, member)
}

// Update 更新会员（仅更新请求中出现的字段）
// PUT /api/v1/members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.ParamError(c, "invalid member id")
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrEmailExists):
			response.ConflictError(c, err.Error())
		case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidDateRange):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, member)
}

// Delete 删除会员
// DELETE /api/v1/members/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.ParamError(c, "invalid member id")
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "member deleted", nil)
}

// GetStatus 会籍状态（剩余天数、即将到期提醒）
// GET /api/v1/members/:id/status
func (h *MemberHandler) GetStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.ParamError(c, "invalid member id")
		return
	}

	requesterID, requesterRole, ok := requester(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	status, err := h.membershipService.MemberStatus(id, requesterID, requesterRole)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.PermissionError(c, "")
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, status)
}

// UploadPhoto 上传会员照片
// POST /api/v1/members/:id/photo
func (h *MemberHandler) UploadPhoto(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.ParamError(c, "invalid member id")
		return
	}

	requesterID, requesterRole, ok := requester(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "file is required")
		return
	}

	// 验证文件大小 (5MB)
	if file.Size > 5*1024*1024 {
		response.ParamError(c, "file too large (max 5MB)")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		response.ParamError(c, "only jpg/png/webp allowed")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.ServerError(c, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.ServerError(c, "failed to read file")
		return
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}

	photoURL, err := h.memberService.UploadPhoto(id, requesterID, requesterRole, data, ext)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPermissionDenied):
			response.PermissionError(c, "")
		case errors.Is(err, service.ErrMemberNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "upload failed")
		}
		return
	}

	response.Success(c, gin.H{"photo_url": photoURL})
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func requester(c *gin.Context) (int64, string, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		return 0, "", false
	}
	role, ok := middleware.GetRole(c)
	if !ok {
		return 0, "", false
	}
	return id, role, true
}
