package role

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
)

// ============================================================================
// Role Enum
// ============================================================================

// Role define los roles cerrados de la aplicación
type Role string

const (
	RoleHrOffice              Role = "hr_office"
	RoleTeamLead              Role = "team_lead"
	RoleDirectorOfEngineering Role = "director_of_engineering"
	RoleNone                  Role = ""
)

// Labels legibles por rol
var Labels = map[Role]string{
	RoleHrOffice:              "HR Office",
	RoleTeamLead:              "Team Lead",
	RoleDirectorOfEngineering: "Director of Engineering",
}

// Parse convierte un string en Role; valores desconocidos → RoleNone
func Parse(value string) Role {
	switch Role(value) {
	case RoleHrOffice, RoleTeamLead, RoleDirectorOfEngineering:
		return Role(value)
	default:
		return RoleNone
	}
}

// IsValid verifica que el rol pertenezca al conjunto cerrado
func (r Role) IsValid() bool {
	return r == RoleHrOffice || r == RoleTeamLead || r == RoleDirectorOfEngineering
}

func (r Role) Label() string {
	return Labels[r]
}

// ============================================================================
// Role Policy - predicados puros y totales
// ============================================================================

// CanManageProcesses - solo hr_office crea/edita procesos de selección
func CanManageProcesses(r Role) bool {
	return r == RoleHrOffice
}

// CanManageCandidates - hr_office y team_lead gestionan candidatos
func CanManageCandidates(r Role) bool {
	return r == RoleHrOffice || r == RoleTeamLead
}

// IsViewOnly - el director de ingeniería solo visualiza
func IsViewOnly(r Role) bool {
	return r == RoleDirectorOfEngineering
}

// IsHrOffice - gestiona ofertas y usuarios
func IsHrOffice(r Role) bool {
	return r == RoleHrOffice
}

// ============================================================================
// Assignment Entity - fila de user_roles
// ============================================================================

// Assignment es la asignación de un rol a un usuario (un rol por usuario)
type Assignment struct {
	ID        string        `db:"id" json:"id"`
	UserID    kernel.UserID `db:"user_id" json:"user_id"`
	Role      Role          `db:"role" json:"role"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// ============================================================================
// DTOs
// ============================================================================

// AssignRoleRequest asigna un rol a un usuario
type AssignRoleRequest struct {
	UserID kernel.UserID `json:"user_id"`
	Role   Role          `json:"role"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("ROLE")

var (
	CodeInvalidRole = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Rol desconocido")
	CodeNotAssigned = ErrRegistry.Register("NOT_ASSIGNED", errx.TypeNotFound, http.StatusNotFound, "El usuario no tiene rol asignado")
)

func ErrInvalidRole() *errx.Error {
	return ErrRegistry.New(CodeInvalidRole)
}

func ErrNotAssigned() *errx.Error {
	return ErrRegistry.New(CodeNotAssigned)
}
