package admin

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// AdminUser is a back office login. Every account is an admin.
type AdminUser struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string
	PasswordHash string `gorm:"not null"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *AdminUser) GetID() uint { return a.ID }

func (a *AdminUser) ToDTO() render.Renderer {
	return &AdminUserDTO{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

type AdminUserDTO struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (dto *AdminUserDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// principal is the authenticated form of an AdminUser.
type principal uint

func (p principal) Admin() bool { return true }

func (p principal) ID() uint { return uint(p) }
