package process

import (
	"context"

	"github.com/Abraxas-365/careerpath/pkg/kernel"
)

// ProcessRepository define el contrato para la persistencia de procesos
type ProcessRepository interface {
	FindByID(ctx context.Context, id string) (*InterviewProcess, error)
	// FindAll retorna todos los procesos, más recientes primero
	FindAll(ctx context.Context) ([]*InterviewProcess, error)
	FindByIDs(ctx context.Context, ids []string) ([]*InterviewProcess, error)
	Save(ctx context.Context, p InterviewProcess) error
	Delete(ctx context.Context, id string) error

	// Access grants (process_access)
	Grant(ctx context.Context, processID string, userID kernel.UserID) error
	Revoke(ctx context.Context, processID string, userID kernel.UserID) error
	GrantsByProcess(ctx context.Context, processID string) ([]kernel.UserID, error)
	// GrantedProcessIDs retorna los ids de proceso visibles para el usuario
	GrantedProcessIDs(ctx context.Context, userID kernel.UserID) ([]string, error)
}

// CandidateCounter cuenta candidatos por proceso. Lo implementa el repositorio
// de candidatos; el puerto vive aquí para no acoplar los dos agregados.
type CandidateCounter interface {
	CountByProcess(ctx context.Context, processIDs []string) (map[string]int, error)
}
