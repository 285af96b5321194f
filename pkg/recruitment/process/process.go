package process

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
)

// ============================================================================
// InterviewProcess Entity
// ============================================================================

// InterviewProcess es un proceso de selección (una vacante abierta)
type InterviewProcess struct {
	ID        string         `db:"id" json:"id"`
	Position  string         `db:"position" json:"position"`
	Role      string         `db:"role" json:"role"`
	StartDate time.Time      `db:"start_date" json:"start_date"`
	EndDate   time.Time      `db:"end_date" json:"end_date"`
	CreatedBy *kernel.UserID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsActive es un flag derivado: el proceso está activo mientras end_date no
// haya pasado. Se calcula siempre contra el reloj, nunca se persiste.
func (p *InterviewProcess) IsActive(now time.Time) bool {
	today := now.Truncate(24 * time.Hour)
	return !p.EndDate.Before(today)
}

// IsOwnedBy verifica si el proceso pertenece al usuario dado
func (p *InterviewProcess) IsOwnedBy(userID kernel.UserID) bool {
	return p.CreatedBy != nil && *p.CreatedBy == userID
}

// ============================================================================
// AccessGrant Entity - fila de process_access
// ============================================================================

// AccessGrant otorga visibilidad de un proceso a un usuario
type AccessGrant struct {
	ID        string        `db:"id" json:"id"`
	ProcessID string        `db:"process_id" json:"process_id"`
	UserID    kernel.UserID `db:"user_id" json:"user_id"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// ============================================================================
// DTOs
// ============================================================================

// CreateProcessRequest representa la petición para crear un proceso
type CreateProcessRequest struct {
	Position      string          `json:"position"`
	Role          string          `json:"role"`
	StartDate     string          `json:"start_date"` // YYYY-MM-DD
	EndDate       string          `json:"end_date"`   // YYYY-MM-DD
	AccessUserIDs []kernel.UserID `json:"access_user_ids,omitempty"`
}

// UpdateProcessRequest sobreescribe los cuatro campos editables
type UpdateProcessRequest struct {
	Position  string `json:"position"`
	Role      string `json:"role"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ProcessResponse es la vista de un proceso con su flag derivado
type ProcessResponse struct {
	InterviewProcess
	Active bool `json:"active"`
}

// ProcessListResponse para listas de procesos
type ProcessListResponse struct {
	Processes []ProcessResponse `json:"processes"`
	Total     int               `json:"total"`
}

// CandidateCountsResponse mapea process_id → cantidad de candidatos
type CandidateCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

// GrantAccessRequest otorga acceso a un usuario
type GrantAccessRequest struct {
	UserID kernel.UserID `json:"user_id"`
}

// AccessListResponse lista los usuarios con acceso a un proceso
type AccessListResponse struct {
	ProcessID string          `json:"process_id"`
	UserIDs   []kernel.UserID `json:"user_ids"`
}

// ToResponse convierte la entidad en su vista con flag derivado
func (p *InterviewProcess) ToResponse(now time.Time) ProcessResponse {
	return ProcessResponse{
		InterviewProcess: *p,
		Active:           p.IsActive(now),
	}
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("PROCESS")

var (
	CodeProcessNotFound  = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Proceso no encontrado")
	CodeMissingField     = ErrRegistry.Register("MISSING_FIELD", errx.TypeValidation, http.StatusBadRequest, "Falta un campo obligatorio")
	CodeInvalidDateRange = ErrRegistry.Register("INVALID_DATE_RANGE", errx.TypeValidation, http.StatusBadRequest, "La fecha de fin no puede ser anterior a la de inicio")
	CodeInvalidDate      = ErrRegistry.Register("INVALID_DATE", errx.TypeValidation, http.StatusBadRequest, "Fecha inválida, se espera YYYY-MM-DD")
	CodeAccessDenied     = ErrRegistry.Register("ACCESS_DENIED", errx.TypeAuthorization, http.StatusForbidden, "Sin acceso a este proceso")
	CodeGrantExists      = ErrRegistry.Register("GRANT_EXISTS", errx.TypeConflict, http.StatusConflict, "El usuario ya tiene acceso al proceso")
)

func ErrProcessNotFound() *errx.Error {
	return ErrRegistry.New(CodeProcessNotFound)
}

func ErrMissingField(field string) *errx.Error {
	return ErrRegistry.New(CodeMissingField).WithDetail("field", field)
}

func ErrInvalidDateRange() *errx.Error {
	return ErrRegistry.New(CodeInvalidDateRange)
}

func ErrInvalidDate(field string) *errx.Error {
	return ErrRegistry.New(CodeInvalidDate).WithDetail("field", field)
}

func ErrAccessDenied() *errx.Error {
	return ErrRegistry.New(CodeAccessDenied)
}

func ErrGrantExists() *errx.Error {
	return ErrRegistry.New(CodeGrantExists)
}
