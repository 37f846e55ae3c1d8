package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-task-api/internal/dto"
	"project-task-api/internal/response"
	"project-task-api/internal/service"
)

// StatusHandler serves per-project workflow statuses and labels
type StatusHandler struct {
	statusService service.StatusService
	labelService  service.LabelService
}

func NewStatusHandler(statusService service.StatusService, labelService service.LabelService) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
		labelService:  labelService,
	}
}

// ListStatuses godoc
// @Summary      상태 목록 조회
// @Tags         statuses
// @Produce      json
// @Security     BearerAuth
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.StatusResponse} "조회 성공"
// @Router       /projects/{projectId}/statuses [get]
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectId", "project")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	statuses, err := h.statusService.ListStatuses(c.Request.Context(), projectID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, statuses)
}

// CreateStatus godoc
// @Summary      상태 생성
// @Description  OWNER 또는 ADMIN만 가능하며 order는 Project 내에서 유일해야 합니다
// @Tags         statuses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId path string true "Project ID (UUID)"
// @Param        request body dto.CreateStatusRequest true "상태 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.StatusResponse} "생성 성공"
// @Failure      400 {object} response.ErrorResponse "중복된 order 또는 잘못된 요청"
// @Router       /projects/{projectId}/statuses [post]
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectId", "project")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := h.statusService.CreateStatus(c.Request.Context(), projectID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, status)
}

// DeleteStatus godoc
// @Summary      상태 삭제
// @Description  이 상태의 Task는 상태가 비워집니다
// @Tags         statuses
// @Produce      json
// @Security     BearerAuth
// @Param        projectId path string true "Project ID (UUID)"
// @Param        statusId path string true "Status ID (UUID)"
// @Success      200 {object} response.SuccessResponse "삭제 성공"
// @Router       /projects/{projectId}/statuses/{statusId} [delete]
func (h *StatusHandler) DeleteStatus(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectId", "project")
	if !ok {
		return
	}
	statusID, ok := pathUUID(c, "statusId", "status")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.statusService.DeleteStatus(c.Request.Context(), projectID, userID, statusID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

// ListLabels godoc
// @Summary      라벨 목록 조회
// @Tags         labels
// @Produce      json
// @Security     BearerAuth
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.LabelResponse} "조회 성공"
// @Router       /projects/{projectId}/labels [get]
func (h *StatusHandler) ListLabels(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectId", "project")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	labels, err := h.labelService.ListLabels(c.Request.Context(), projectID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, labels)
}

// CreateLabel godoc
// @Summary      라벨 생성
// @Tags         labels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId path string true "Project ID (UUID)"
// @Param        request body dto.CreateLabelRequest true "라벨 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.LabelResponse} "생성 성공"
// @Failure      409 {object} response.ErrorResponse "중복된 이름"
// @Router       /projects/{projectId}/labels [post]
func (h *StatusHandler) CreateLabel(c *gin.Context) {
	projectID, ok := pathUUID(c, "projectId", "project")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLabelRequest
	if !bindJSON(c, &req) {
		return
	}

	label, err := h.labelService.CreateLabel(c.Request.Context(), projectID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, label)
}
