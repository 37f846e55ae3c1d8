package dto

import (
	"time"

	"github.com/google/uuid"
)

// PresignedURLRequest represents the request for an upload URL
// @Description fileSize is in bytes and may not exceed 50MB
type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255" example:"design.png"`
	ContentType string `json:"contentType" binding:"required" example:"image/png"`
	FileSize    int64  `json:"fileSize" binding:"required,min=1" example:"204800"`
}

// PresignedURLResponse carries a short-lived upload URL and the key to register afterwards
type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey" example:"tasks/539167fb-b599-41ba-9ead-344a6d0b3a2f/2024/01/0b1c_1700000000.png"`
	ExpiresIn int    `json:"expiresIn" example:"300"`
}

// CreateAttachmentRequest registers an uploaded object against a task
type CreateAttachmentRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255" example:"design.png"`
	FileKey     string `json:"fileKey" binding:"required"`
	ContentType string `json:"contentType" binding:"required" example:"image/png"`
	FileSize    int64  `json:"fileSize" binding:"required,min=1" example:"204800"`
}

// AttachmentResponse represents file metadata
type AttachmentResponse struct {
	AttachmentID uuid.UUID `json:"attachmentId"`
	TaskID       uuid.UUID `json:"taskId"`
	FileName     string    `json:"fileName"`
	FileURL      string    `json:"fileUrl"`
	ContentType  string    `json:"contentType"`
	FileSize     int64     `json:"fileSize"`
	UploadedBy   uuid.UUID `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}
