package candidate

import "context"

// CandidateRepository define el contrato para la persistencia de candidatos
// y su historial de etapas
type CandidateRepository interface {
	FindByID(ctx context.Context, id string) (*Candidate, error)
	// FindByProcess retorna los candidatos de un proceso, más recientes primero
	FindByProcess(ctx context.Context, processID string) ([]*Candidate, error)
	FindAll(ctx context.Context) ([]*Candidate, error)
	// FindReadyForOffer retorna candidatos aprobados con oferta pendiente o enviada
	FindReadyForOffer(ctx context.Context) ([]*Candidate, error)
	// FindPassed retorna candidatos aprobados, decisión más reciente primero
	FindPassed(ctx context.Context) ([]*Candidate, error)
	Save(ctx context.Context, c Candidate) error
	Delete(ctx context.Context, id string) error

	// Status history (status_updates) - append-only
	AppendStatusUpdate(ctx context.Context, update StatusUpdate) error
	HistoryByCandidate(ctx context.Context, candidateID string) ([]StatusUpdate, error)
	// HistoryByCandidates trae el historial de varios candidatos en una sola
	// consulta, agrupado por candidato para el join en memoria
	HistoryByCandidates(ctx context.Context, candidateIDs []string) (map[string][]StatusUpdate, error)

	// CountByProcess implementa process.CandidateCounter
	CountByProcess(ctx context.Context, processIDs []string) (map[string]int, error)
}

// PassedNotification son los hechos que viajan al colaborador de notificación
// cuando un candidato aprueba la etapa final
type PassedNotification struct {
	CandidateName   string `json:"candidateName"`
	CandidateEmail  string `json:"candidateEmail"`
	ProcessPosition string `json:"processPosition"`
	ProcessRole     string `json:"processRole"`
}

// PassedNotifier despacha la notificación a HR. La implementación es
// fire-and-forget: un error aquí nunca revierte el cambio de estado.
type PassedNotifier interface {
	NotifyCandidatePassed(ctx context.Context, notification PassedNotification) error
}
