package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-task-api/internal/domain"
	"project-task-api/internal/dto"
	"project-task-api/internal/response"
	"project-task-api/internal/service"
)

type MemberHandler struct {
	membershipService service.MembershipService
}

func NewMemberHandler(membershipService service.MembershipService) *MemberHandler {
	return &MemberHandler{membershipService: membershipService}
}

// ListMembers godoc
// @Summary      멤버 목록 조회
// @Description  owner를 포함한 Project 멤버를 조회합니다. excludeOwner=true면 owner를 제외합니다
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        projectId path string true "Project ID (UUID)"
// @Param        excludeOwner query bool false "owner 제외 여부"
// @Success      200 {object} response.SuccessResponse{data=[]dto.MemberResponse} "조회 성공"
// @Failure      404 {object} response.ErrorResponse "Project를 찾을 수 없음"
// @Router       /projects/{projectId}/members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectId", "project")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var (
		members []dto.MemberResponse
		err     error
	)
	if c.Query("excludeOwner") == "true" {
		members, err = h.membershipService.ListMembersExcludingOwner(c.Request.Context(), projectID, userID)
	} else {
		members, err = h.membershipService.ListMembers(c.Request.Context(), projectID, userID)
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, members)
}

// AddMember godoc
// @Summary      멤버 추가
// @Description  OWNER 또는 ADMIN만 가능합니다. role 기본값은 member입니다
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId path string true "Project ID (UUID)"
// @Param        request body dto.AddMemberRequest true "멤버 추가 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.MemberResponse} "추가 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      409 {object} response.ErrorResponse "이미 멤버임"
// @Router       /projects/{projectId}/members [post]
func (h *MemberHandler) AddMember(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectId", "project")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.membershipService.AddMember(c.Request.Context(), projectID, userID, req.UserID, domain.MemberRole(req.Role))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, member)
}

// UpdateMemberRole godoc
// @Summary      멤버 역할 변경
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId path string true "Project ID (UUID)"
// @Param        memberId path string true "Member ID (UUID)"
// @Param        request body dto.UpdateMemberRoleRequest true "역할 변경 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.MemberResponse} "변경 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "멤버를 찾을 수 없음"
// @Router       /projects/{projectId}/members/{memberId} [patch]
func (h *MemberHandler) UpdateMemberRole(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectId", "project")
	if !ok {
		return
	}
	memberID, ok := pathUUID(c, "memberId", "member")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.membershipService.UpdateMemberRole(c.Request.Context(), projectID, userID, memberID, domain.MemberRole(req.Role))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, member)
}

// RemoveMember godoc
// @Summary      멤버 제거
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        projectId path string true "Project ID (UUID)"
// @Param        memberId path string true "Member ID (UUID)"
// @Success      200 {object} response.SuccessResponse "제거 성공"
// @Failure      400 {object} response.ErrorResponse "owner는 제거할 수 없음"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "멤버를 찾을 수 없음"
// @Router       /projects/{projectId}/members/{memberId} [delete]
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectId", "project")
	if !ok {
		return
	}
	memberID, ok := pathUUID(c, "memberId", "member")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.membershipService.RemoveMember(c.Request.Context(), projectID, userID, memberID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

// TransferOwnership godoc
// @Summary      소유권 이전
// @Description  현재 owner만 가능합니다. 이미 owner인 멤버를 지정하면 경고 notice와 함께 변경 없이 성공합니다
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId path string true "Project ID (UUID)"
// @Param        request body dto.TransferOwnershipRequest true "소유권 이전 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.TransferOwnershipResponse} "이전 성공"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "멤버를 찾을 수 없음"
// @Router       /projects/{projectId}/transfer-ownership [post]
func (h *MemberHandler) TransferOwnership(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectId", "project")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.TransferOwnershipRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.membershipService.TransferOwnership(c.Request.Context(), projectID, userID, req.MemberID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.TransferOwnershipResponse{
		Owner:   result.Owner,
		Notices: []dto.Notice{service.TransferNotice(result)},
	})
}
