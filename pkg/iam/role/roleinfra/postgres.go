package roleinfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRoleRepository implementación de PostgreSQL para RoleRepository
type PostgresRoleRepository struct {
	db *sqlx.DB
}

// NewPostgresRoleRepository crea una nueva instancia del repositorio de roles
func NewPostgresRoleRepository(db *sqlx.DB) role.RoleRepository {
	return &PostgresRoleRepository{
		db: db,
	}
}

// FindByUser busca el rol asignado a un usuario; RoleNone si no existe
func (r *PostgresRoleRepository) FindByUser(ctx context.Context, userID kernel.UserID) (role.Role, error) {
	query := `SELECT role FROM user_roles WHERE user_id = $1`

	var assigned role.Role
	err := r.db.GetContext(ctx, &assigned, query, userID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return role.RoleNone, nil
		}
		return role.RoleNone, errx.Wrap(err, "failed to find role by user", errx.TypeInternal).
			WithDetail("user_id", userID.String())
	}

	return assigned, nil
}

// FindAll retorna todas las asignaciones de rol
func (r *PostgresRoleRepository) FindAll(ctx context.Context) ([]*role.Assignment, error) {
	query := `
		SELECT id, user_id, role, created_at
		FROM user_roles
		ORDER BY created_at DESC`

	var assignments []role.Assignment
	err := r.db.SelectContext(ctx, &assignments, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list role assignments", errx.TypeInternal)
	}

	result := make([]*role.Assignment, len(assignments))
	for i := range assignments {
		result[i] = &assignments[i]
	}

	return result, nil
}

// FindUsersByRole retorna los ids de usuario que tienen el rol dado
func (r *PostgresRoleRepository) FindUsersByRole(ctx context.Context, rl role.Role) ([]kernel.UserID, error) {
	query := `SELECT user_id FROM user_roles WHERE role = $1`

	var ids []string
	err := r.db.SelectContext(ctx, &ids, query, string(rl))
	if err != nil {
		return nil, errx.Wrap(err, "failed to find users by role", errx.TypeInternal).
			WithDetail("role", string(rl))
	}

	result := make([]kernel.UserID, len(ids))
	for i, id := range ids {
		result[i] = kernel.NewUserID(id)
	}

	return result, nil
}

// Assign crea o reemplaza la asignación de rol del usuario
func (r *PostgresRoleRepository) Assign(ctx context.Context, userID kernel.UserID, rl role.Role) error {
	if !rl.IsValid() {
		return role.ErrInvalidRole().WithDetail("role", string(rl))
	}

	query := `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`

	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID.String(), string(rl), time.Now())
	if err != nil {
		return errx.Wrap(err, "failed to assign role", errx.TypeInternal).
			WithDetail("user_id", userID.String()).
			WithDetail("role", string(rl))
	}

	return nil
}

// Remove elimina la asignación de rol del usuario
func (r *PostgresRoleRepository) Remove(ctx context.Context, userID kernel.UserID) error {
	query := `DELETE FROM user_roles WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID.String())
	if err != nil {
		return errx.Wrap(err, "failed to remove role", errx.TypeInternal).
			WithDetail("user_id", userID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return role.ErrNotAssigned().WithDetail("user_id", userID.String())
	}

	return nil
}
