package models

type UserRole string

const (
	UserRoleSeeker   UserRole = "seeker"   // соискатель: загружает CV
	UserRoleProvider UserRole = "provider" // работодатель/рекрутер: владеет проектами
	UserRoleAdmin    UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	BaseModel
	Name   string     `gorm:"not null" json:"name"`
	Email  string     `gorm:"uniqueIndex;not null" json:"email"`
	Role   UserRole   `gorm:"not null;default:'seeker'" json:"role"`
	Status UserStatus `gorm:"not null;default:'active'" json:"status"`

	Projects []SearchProject `gorm:"foreignKey:OwnerID" json:"projects,omitempty"`
}
