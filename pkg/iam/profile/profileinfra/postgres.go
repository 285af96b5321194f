package profileinfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/iam/profile"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresProfileRepository implementación de PostgreSQL para ProfileRepository
type PostgresProfileRepository struct {
	db *sqlx.DB
}

// NewPostgresProfileRepository crea una nueva instancia del repositorio de perfiles
func NewPostgresProfileRepository(db *sqlx.DB) profile.ProfileRepository {
	return &PostgresProfileRepository{
		db: db,
	}
}

// FindByUser busca un perfil por id de usuario
func (r *PostgresProfileRepository) FindByUser(ctx context.Context, userID kernel.UserID) (*profile.Profile, error) {
	query := `
		SELECT id, user_id, email, full_name, is_active, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`

	var p profile.Profile
	err := r.db.GetContext(ctx, &p, query, userID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, profile.ErrProfileNotFound().WithDetail("user_id", userID.String())
		}
		return nil, errx.Wrap(err, "failed to find profile by user", errx.TypeInternal).
			WithDetail("user_id", userID.String())
	}

	return &p, nil
}

// FindAll retorna todos los perfiles, más recientes primero
func (r *PostgresProfileRepository) FindAll(ctx context.Context) ([]*profile.Profile, error) {
	query := `
		SELECT id, user_id, email, full_name, is_active, created_at, updated_at
		FROM profiles
		ORDER BY created_at DESC`

	var profiles []profile.Profile
	err := r.db.SelectContext(ctx, &profiles, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list profiles", errx.TypeInternal)
	}

	result := make([]*profile.Profile, len(profiles))
	for i := range profiles {
		result[i] = &profiles[i]
	}

	return result, nil
}

// FindByUserIDs retorna los perfiles de los ids dados
func (r *PostgresProfileRepository) FindByUserIDs(ctx context.Context, userIDs []kernel.UserID) ([]*profile.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT id, user_id, email, full_name, is_active, created_at, updated_at
		FROM profiles
		WHERE user_id = ANY($1)`

	var profiles []profile.Profile
	err := r.db.SelectContext(ctx, &profiles, query, pq.Array(ids))
	if err != nil {
		return nil, errx.Wrap(err, "failed to find profiles by user ids", errx.TypeInternal).
			WithDetail("count", len(ids))
	}

	result := make([]*profile.Profile, len(profiles))
	for i := range profiles {
		result[i] = &profiles[i]
	}

	return result, nil
}

// SetActive activa o desactiva un usuario
func (r *PostgresProfileRepository) SetActive(ctx context.Context, userID kernel.UserID, active bool) error {
	query := `UPDATE profiles SET is_active = $1, updated_at = $2 WHERE user_id = $3`

	result, err := r.db.ExecContext(ctx, query, active, time.Now(), userID.String())
	if err != nil {
		return errx.Wrap(err, "failed to set profile active flag", errx.TypeInternal).
			WithDetail("user_id", userID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	if rowsAffected == 0 {
		return profile.ErrProfileNotFound().WithDetail("user_id", userID.String())
	}

	return nil
}
