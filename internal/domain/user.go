package domain

const (
	UsernameMinLength = 3
	UsernameMaxLength = 150
)

// User is an account known to the auth layer
type User struct {
	BaseModel
	Username     string `gorm:"type:varchar(150);not null;uniqueIndex:uq_users_username" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
