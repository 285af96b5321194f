package profile

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
)

// ============================================================================
// Profile Entity
// ============================================================================

// Profile es el perfil de un usuario provisto por el colaborador de identidad.
// La autenticación vive fuera del sistema; aquí solo se proyectan sus datos.
type Profile struct {
	ID        string        `db:"id" json:"id"`
	UserID    kernel.UserID `db:"user_id" json:"user_id"`
	Email     string        `db:"email" json:"email"`
	FullName  *string       `db:"full_name" json:"full_name,omitempty"`
	IsActive  bool          `db:"is_active" json:"is_active"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// DisplayName retorna el nombre visible (o el email como fallback)
func (p *Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return p.Email
}

// ============================================================================
// DTOs
// ============================================================================

// UserWithRole combina un perfil con su rol asignado (join en memoria)
type UserWithRole struct {
	ID        string        `json:"id"`
	UserID    kernel.UserID `json:"user_id"`
	Email     string        `json:"email"`
	FullName  *string       `json:"full_name,omitempty"`
	IsActive  bool          `json:"is_active"`
	Role      role.Role     `json:"role"`
	CreatedAt time.Time     `json:"created_at"`
}

// UserListResponse para listas de usuarios
type UserListResponse struct {
	Users []UserWithRole `json:"users"`
	Total int            `json:"total"`
}

// SetActiveRequest activa o desactiva un usuario
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("PROFILE")

var (
	CodeProfileNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Perfil no encontrado")
)

func ErrProfileNotFound() *errx.Error {
	return ErrRegistry.New(CodeProfileNotFound)
}
