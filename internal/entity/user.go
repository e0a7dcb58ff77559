package entity

import "time"

const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	DisplayName  string    `gorm:"column:display_name;type:varchar(255)" json:"display_name"`
	Plan         string    `gorm:"column:plan;type:varchar(50);index;not null;default:free" json:"plan"`
	FreeUsage    int       `gorm:"column:free_usage;not null;default:0" json:"free_usage"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// IsPremium reports whether the account holds the premium entitlement.
func (u *DbUser) IsPremium() bool {
	return u != nil && u.Plan == PlanPremium
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Plan        string    `json:"plan"`
	FreeUsage   int       `json:"free_usage"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthRegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type PlanUpdateRequest struct {
	Plan string `json:"plan" binding:"required"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}
