package domain

import "github.com/google/uuid"

// Attachment is file metadata for an object kept in object storage.
// FileKey holds the storage key only, never a full URL.
type Attachment struct {
	BaseModel
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index:idx_attachments_task_id" json:"task_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	FileKey     string    `gorm:"type:text;not null" json:"file_key"`
	ContentType string    `gorm:"type:varchar(100);not null" json:"content_type"`
	FileSize    int64     `gorm:"not null" json:"file_size"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null;index:idx_attachments_uploaded_by" json:"uploaded_by"`
}

// TableName specifies the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}
