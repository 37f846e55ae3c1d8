package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-task-api/internal/dto"
	"project-task-api/internal/response"
	"project-task-api/internal/service"
)

// AttachmentHandler handles attachment-related HTTP requests
type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// GeneratePresignedURL godoc
// @Summary      파일 업로드용 Presigned URL 생성
// @Description  S3에 직접 업로드할 수 있는 Presigned URL을 생성합니다 (최대 50MB)
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskId path string true "Task ID (UUID)"
// @Param        request body dto.PresignedURLRequest true "Presigned URL 생성 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.PresignedURLResponse} "생성 성공"
// @Failure      400 {object} response.ErrorResponse "파일 크기 또는 형식 오류"
// @Failure      404 {object} response.ErrorResponse "Task를 찾을 수 없음"
// @Router       /tasks/{taskId}/attachments/presigned-url [post]
func (h *AttachmentHandler) GeneratePresignedURL(c *gin.Context) {
	taskID, ok := pathUUID(c, "taskId", "task")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.PresignedURLRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.attachmentService.GeneratePresignedURL(c.Request.Context(), taskID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// CreateAttachment godoc
// @Summary      첨부파일 메타데이터 등록
// @Description  Presigned URL로 업로드를 마친 뒤 호출합니다
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskId path string true "Task ID (UUID)"
// @Param        request body dto.CreateAttachmentRequest true "첨부파일 등록 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.AttachmentResponse} "등록 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Router       /tasks/{taskId}/attachments [post]
func (h *AttachmentHandler) CreateAttachment(c *gin.Context) {
	taskID, ok := pathUUID(c, "taskId", "task")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAttachmentRequest
	if !bindJSON(c, &req) {
		return
	}

	attachment, err := h.attachmentService.CreateAttachment(c.Request.Context(), taskID, userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, attachment)
}

// ListAttachments godoc
// @Summary      첨부파일 목록 조회
// @Tags         attachments
// @Produce      json
// @Security     BearerAuth
// @Param        taskId path string true "Task ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.AttachmentResponse} "조회 성공"
// @Router       /tasks/{taskId}/attachments [get]
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
	taskID, ok := pathUUID(c, "taskId", "task")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	attachments, err := h.attachmentService.ListAttachments(c.Request.Context(), taskID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, attachments)
}

// DeleteAttachment godoc
// @Summary      첨부파일 삭제
// @Description  S3 객체도 함께 삭제합니다
// @Tags         attachments
// @Produce      json
// @Security     BearerAuth
// @Param        taskId path string true "Task ID (UUID)"
// @Param        attachmentId path string true "Attachment ID (UUID)"
// @Success      200 {object} response.SuccessResponse "삭제 성공"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "첨부파일을 찾을 수 없음"
// @Router       /tasks/{taskId}/attachments/{attachmentId} [delete]
func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	taskID, ok := pathUUID(c, "taskId", "task")
	if !ok {
		return
	}
	attachmentID, ok := pathUUID(c, "attachmentId", "attachment")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.attachmentService.DeleteAttachment(c.Request.Context(), taskID, userID, attachmentID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}
