package dto

// Notice levels
const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
)

// Notice is a user-facing message attached to a successful response
type Notice struct {
	Level string `json:"level" example:"warning"`
	Text  string `json:"text" example:"User is already the owner"`
}
