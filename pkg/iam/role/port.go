package role

import (
	"context"

	"github.com/Abraxas-365/careerpath/pkg/kernel"
)

// RoleRepository define el contrato para la persistencia de asignaciones de rol
type RoleRepository interface {
	// FindByUser retorna RoleNone (sin error) cuando el usuario no tiene rol
	FindByUser(ctx context.Context, userID kernel.UserID) (Role, error)
	FindAll(ctx context.Context) ([]*Assignment, error)
	FindUsersByRole(ctx context.Context, r Role) ([]kernel.UserID, error)
	// Assign crea o reemplaza la asignación del usuario (upsert)
	Assign(ctx context.Context, userID kernel.UserID, r Role) error
	Remove(ctx context.Context, userID kernel.UserID) error
}
