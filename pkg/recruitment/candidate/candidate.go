package candidate

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
)

// ============================================================================
// CandidateStatus - etapas del pipeline de entrevistas
// ============================================================================

type CandidateStatus string

const (
	StatusInitial         CandidateStatus = "initial"
	StatusHrThoughts      CandidateStatus = "hr_thoughts"
	StatusTechnicalFirst  CandidateStatus = "technical_first"
	StatusTechnicalSecond CandidateStatus = "technical_second"
	StatusFinalDecision   CandidateStatus = "final_decision"
)

// StatusLabels nombres legibles de cada etapa
var StatusLabels = map[CandidateStatus]string{
	StatusInitial:         "Initial Screening",
	StatusHrThoughts:      "HR Thoughts",
	StatusTechnicalFirst:  "First Technical Interview",
	StatusTechnicalSecond: "Second Technical Interview",
	StatusFinalDecision:   "Final Decision",
}

// legacyStatuses mapea valores de revisiones de esquema anteriores al enum
// vigente. Filas viejas pueden seguir llegando con estos valores.
var legacyStatuses = map[string]CandidateStatus{
	"hr_started": StatusInitial,
}

// ParseStatus normaliza un valor crudo al enum vigente, aceptando los
// valores de esquemas anteriores
func ParseStatus(raw string) (CandidateStatus, bool) {
	s := CandidateStatus(raw)
	if _, ok := StatusLabels[s]; ok {
		return s, true
	}
	if mapped, ok := legacyStatuses[raw]; ok {
		return mapped, true
	}
	return "", false
}

// IsTerminal indica si la etapa es la última del pipeline
func (s CandidateStatus) IsTerminal() bool {
	return s == StatusFinalDecision
}

// ============================================================================
// Decision - veredicto pass/fail de una etapa
// ============================================================================

type Decision string

const (
	DecisionPass Decision = "pass"
	DecisionFail Decision = "fail"
)

func (d Decision) IsValid() bool {
	return d == DecisionPass || d == DecisionFail
}

// ============================================================================
// OfferStatus - sub-flujo de oferta una vez aprobado el candidato
// ============================================================================

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferSent     OfferStatus = "sent"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

func (o OfferStatus) IsValid() bool {
	switch o {
	case OfferPending, OfferSent, OfferAccepted, OfferRejected:
		return true
	}
	return false
}

// CanTransitionTo define la máquina de estados de la oferta:
// pending → sent → {accepted, rejected}. Accepted y rejected son terminales.
func (o OfferStatus) CanTransitionTo(next OfferStatus) bool {
	switch o {
	case OfferPending:
		return next == OfferSent
	case OfferSent:
		return next == OfferAccepted || next == OfferRejected
	}
	return false
}

// ============================================================================
// Candidate Entity
// ============================================================================

// Candidate es un postulante dentro de un proceso de selección
type Candidate struct {
	ID                   string          `db:"id" json:"id"`
	ProcessID            string          `db:"process_id" json:"process_id"`
	Name                 string          `db:"name" json:"name"`
	Email                string          `db:"email" json:"email"`
	LinkedInURL          *string         `db:"linkedin_url" json:"linkedin_url,omitempty"`
	DesiredPriceRange    *string         `db:"desired_price_range" json:"desired_price_range,omitempty"`
	Rating               *int            `db:"rating" json:"rating,omitempty"`
	GithubTaskURL        *string         `db:"github_task_url" json:"github_task_url,omitempty"`
	Status               CandidateStatus `db:"status" json:"status"`
	FinalDecision        *Decision       `db:"final_decision" json:"final_decision,omitempty"`
	FinalDecisionDate    *time.Time      `db:"final_decision_date" json:"final_decision_date,omitempty"`
	OfferStatus          *OfferStatus    `db:"offer_status" json:"offer_status,omitempty"`
	OfferDescription     *string         `db:"offer_description" json:"offer_description,omitempty"`
	OfferStartDate       *time.Time      `db:"offer_start_date" json:"offer_start_date,omitempty"`
	OfferRejectionReason *string         `db:"offer_rejection_reason" json:"offer_rejection_reason,omitempty"`
	OfferDecisionDate    *time.Time      `db:"offer_decision_date" json:"offer_decision_date,omitempty"`
	CreatedBy            *kernel.UserID  `db:"created_by" json:"created_by,omitempty"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}

// StatusUpdate es una entrada del historial de etapas de un candidato.
// El historial es append-only: nunca se reordena ni se borra.
// UpdatedBy guarda el nombre visible de quien registró la entrada, no su id.
type StatusUpdate struct {
	ID          string          `db:"id" json:"id"`
	CandidateID string          `db:"candidate_id" json:"candidate_id"`
	Status      CandidateStatus `db:"status" json:"status"`
	Description string          `db:"description" json:"description"`
	Decision    *Decision       `db:"decision" json:"decision,omitempty"`
	UpdatedBy   *string         `db:"updated_by" json:"updated_by,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// RecordFail marca al candidato como reprobado. La decisión terminal es
// first-write-wins: si ya hay una decisión registrada no se sobreescribe.
func (c *Candidate) RecordFail(now time.Time) {
	if c.FinalDecision != nil {
		return
	}
	decision := DecisionFail
	c.FinalDecision = &decision
	c.FinalDecisionDate = &now
}

// RecordPass marca al candidato como aprobado y abre el sub-flujo de oferta.
// Retorna true solo la primera vez, para que la notificación a HR se dispare
// exactamente una vez.
func (c *Candidate) RecordPass(now time.Time) bool {
	if c.FinalDecision != nil {
		return false
	}
	decision := DecisionPass
	offerStatus := OfferPending
	c.FinalDecision = &decision
	c.FinalDecisionDate = &now
	c.OfferStatus = &offerStatus
	return true
}

// HasPassed indica si el candidato aprobó la decisión final
func (c *Candidate) HasPassed() bool {
	return c.FinalDecision != nil && *c.FinalDecision == DecisionPass
}

// ApplyOfferTransition avanza el sub-flujo de oferta validando la transición
func (c *Candidate) ApplyOfferTransition(next OfferStatus, description, rejectionReason *string, startDate *time.Time, now time.Time) error {
	if !c.HasPassed() {
		return ErrOfferNotAvailable()
	}
	if c.OfferStatus == nil || !c.OfferStatus.CanTransitionTo(next) {
		current := ""
		if c.OfferStatus != nil {
			current = string(*c.OfferStatus)
		}
		return ErrInvalidOfferTransition(current, string(next))
	}

	status := next
	c.OfferStatus = &status

	switch next {
	case OfferAccepted:
		c.OfferDescription = description
		c.OfferStartDate = startDate
		c.OfferDecisionDate = &now
	case OfferRejected:
		c.OfferRejectionReason = rejectionReason
		c.OfferDecisionDate = &now
	}

	return nil
}

// ============================================================================
// DTOs
// ============================================================================

// AddCandidateRequest representa la petición para agregar un candidato
type AddCandidateRequest struct {
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	LinkedInURL       *string `json:"linkedin_url,omitempty"`
	DesiredPriceRange *string `json:"desired_price_range,omitempty"`
	Rating            *int    `json:"rating,omitempty"`
	StatusDescription *string `json:"status_description,omitempty"`
}

// UpdateStatusRequest mueve al candidato a una etapa del pipeline
type UpdateStatusRequest struct {
	Status        string  `json:"status"`
	Description   string  `json:"description"`
	Decision      *string `json:"decision,omitempty"`
	GithubTaskURL *string `json:"github_task_url,omitempty"`
}

// UpdateOfferRequest avanza el sub-flujo de oferta
type UpdateOfferRequest struct {
	OfferStatus     string  `json:"offer_status"`
	Description     *string `json:"description,omitempty"`
	StartDate       *string `json:"start_date,omitempty"` // YYYY-MM-DD
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

// CandidateResponse es un candidato con su historial completo
type CandidateResponse struct {
	Candidate
	StatusHistory []StatusUpdate `json:"status_history"`
}

// CandidateListResponse para listas de candidatos de un proceso
type CandidateListResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Total      int                 `json:"total"`
}

// CandidateWithProcess es un candidato enriquecido con los datos de su proceso
type CandidateWithProcess struct {
	Candidate
	ProcessPosition string `json:"process_position"`
	ProcessRole     string `json:"process_role"`
}

// CandidateWithProcessListResponse para vistas que cruzan procesos
type CandidateWithProcessListResponse struct {
	Candidates []CandidateWithProcess `json:"candidates"`
	Total      int                    `json:"total"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CANDIDATE")

var (
	CodeCandidateNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidato no encontrado")
	CodeMissingField           = ErrRegistry.Register("MISSING_FIELD", errx.TypeValidation, http.StatusBadRequest, "Falta un campo obligatorio")
	CodeBlankDescription       = ErrRegistry.Register("BLANK_DESCRIPTION", errx.TypeValidation, http.StatusBadRequest, "La descripción no puede estar vacía")
	CodeInvalidStatus          = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Etapa de pipeline inválida")
	CodeInvalidDecision        = ErrRegistry.Register("INVALID_DECISION", errx.TypeValidation, http.StatusBadRequest, "La decisión debe ser pass o fail")
	CodeInvalidRating          = ErrRegistry.Register("INVALID_RATING", errx.TypeValidation, http.StatusBadRequest, "El rating debe estar entre 1 y 10")
	CodeInvalidOfferStatus     = ErrRegistry.Register("INVALID_OFFER_STATUS", errx.TypeValidation, http.StatusBadRequest, "Estado de oferta inválido")
	CodeOfferNotAvailable      = ErrRegistry.Register("OFFER_NOT_AVAILABLE", errx.TypeBusiness, http.StatusUnprocessableEntity, "El candidato no tiene una decisión final aprobada")
	CodeInvalidOfferTransition = ErrRegistry.Register("INVALID_OFFER_TRANSITION", errx.TypeBusiness, http.StatusUnprocessableEntity, "Transición de oferta inválida")
	CodeInvalidDate            = ErrRegistry.Register("INVALID_DATE", errx.TypeValidation, http.StatusBadRequest, "Fecha inválida, se espera YYYY-MM-DD")
)

func ErrCandidateNotFound() *errx.Error {
	return ErrRegistry.New(CodeCandidateNotFound)
}

func ErrMissingField(field string) *errx.Error {
	return ErrRegistry.New(CodeMissingField).WithDetail("field", field)
}

func ErrBlankDescription() *errx.Error {
	return ErrRegistry.New(CodeBlankDescription)
}

func ErrInvalidStatus(raw string) *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus).WithDetail("status", raw)
}

func ErrInvalidDecision(raw string) *errx.Error {
	return ErrRegistry.New(CodeInvalidDecision).WithDetail("decision", raw)
}

func ErrInvalidRating(rating int) *errx.Error {
	return ErrRegistry.New(CodeInvalidRating).WithDetail("rating", rating)
}

func ErrInvalidOfferStatus(raw string) *errx.Error {
	return ErrRegistry.New(CodeInvalidOfferStatus).WithDetail("offer_status", raw)
}

func ErrOfferNotAvailable() *errx.Error {
	return ErrRegistry.New(CodeOfferNotAvailable)
}

func ErrInvalidOfferTransition(from, to string) *errx.Error {
	return ErrRegistry.New(CodeInvalidOfferTransition).
		WithDetail("from", from).
		WithDetail("to", to)
}

func ErrInvalidDate(field string) *errx.Error {
	return ErrRegistry.New(CodeInvalidDate).WithDetail("field", field)
}
