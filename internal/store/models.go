package store

import "time"

// User is an account. Deleting a user cascades to its notifications.
type User struct {
	ID           uint      `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Username     string    `gorm:"column:user_name;size:20;uniqueIndex;not null" json:"user_name"`
	Email        string    `gorm:"column:user_email;size:50;uniqueIndex;not null" json:"user_email"`
	PasswordHash string    `gorm:"column:password_hash;size:500;not null" json:"-"`
	Location     *string   `gorm:"column:location;size:100" json:"location"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// HasLocation reports whether the user has stored a location.
func (u *User) HasLocation() bool {
	return u.Location != nil && *u.Location != ""
}

// Notification is a message addressed to one user.
type Notification struct {
	ID        uint      `gorm:"column:notification_id;primaryKey;autoIncrement" json:"notification_id"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"-"`
	Message   string    `gorm:"column:message;size:255;not null" json:"message"`
	IsRead    bool      `gorm:"column:is_read;not null" json:"is_read"`
	Location  string    `gorm:"column:location;size:100;not null" json:"location"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
