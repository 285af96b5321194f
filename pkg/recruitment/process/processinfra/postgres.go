package processinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/process"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresProcessRepository implementa process.ProcessRepository usando PostgreSQL
type PostgresProcessRepository struct {
	db *sqlx.DB
}

// NewPostgresProcessRepository crea una nueva instancia del repositorio
func NewPostgresProcessRepository(db *sqlx.DB) *PostgresProcessRepository {
	return &PostgresProcessRepository{db: db}
}

// FindByID busca un proceso por su ID
func (r *PostgresProcessRepository) FindByID(ctx context.Context, id string) (*process.InterviewProcess, error) {
	query := `
		SELECT id, position, role, start_date, end_date, created_by, created_at, updated_at
		FROM interview_processes
		WHERE id = $1`

	var p process.InterviewProcess
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, process.ErrProcessNotFound()
		}
		return nil, errx.Wrap(err, "failed to find process", errx.TypeInternal)
	}

	return &p, nil
}

// FindAll retorna todos los procesos, más recientes primero
func (r *PostgresProcessRepository) FindAll(ctx context.Context) ([]*process.InterviewProcess, error) {
	query := `
		SELECT id, position, role, start_date, end_date, created_by, created_at, updated_at
		FROM interview_processes
		ORDER BY created_at DESC`

	var processes []*process.InterviewProcess
	err := r.db.SelectContext(ctx, &processes, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list processes", errx.TypeInternal)
	}

	return processes, nil
}

// FindByIDs retorna los procesos cuyos ids estén en la lista
func (r *PostgresProcessRepository) FindByIDs(ctx context.Context, ids []string) ([]*process.InterviewProcess, error) {
	if len(ids) == 0 {
		return []*process.InterviewProcess{}, nil
	}

	query := `
		SELECT id, position, role, start_date, end_date, created_by, created_at, updated_at
		FROM interview_processes
		WHERE id = ANY($1)
		ORDER BY created_at DESC`

	var processes []*process.InterviewProcess
	err := r.db.SelectContext(ctx, &processes, query, pq.Array(ids))
	if err != nil {
		return nil, errx.Wrap(err, "failed to find processes by ids", errx.TypeInternal)
	}

	return processes, nil
}

// Save inserta o actualiza un proceso
func (r *PostgresProcessRepository) Save(ctx context.Context, p process.InterviewProcess) error {
	query := `
		INSERT INTO interview_processes (id, position, role, start_date, end_date, created_by, created_at, updated_at)
		VALUES (:id, :position, :role, :start_date, :end_date, :created_by, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			position = EXCLUDED.position,
			role = EXCLUDED.role,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		return errx.Wrap(err, "failed to save process", errx.TypeInternal)
	}

	return nil
}

// Delete elimina un proceso. Las filas dependientes (candidatos, accesos)
// caen por ON DELETE CASCADE.
func (r *PostgresProcessRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM interview_processes WHERE id = $1`, id)
	if err != nil {
		return errx.Wrap(err, "failed to delete process", errx.TypeInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to check deletion result", errx.TypeInternal)
	}
	if rows == 0 {
		return process.ErrProcessNotFound()
	}

	return nil
}

// Grant otorga acceso de lectura sobre un proceso a un usuario
func (r *PostgresProcessRepository) Grant(ctx context.Context, processID string, userID kernel.UserID) error {
	query := `
		INSERT INTO process_access (id, process_id, user_id, created_at)
		VALUES ($1, $2, $3, NOW())`

	_, err := r.db.ExecContext(ctx, query, uuid.NewString(), processID, userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return process.ErrGrantExists()
		}
		return errx.Wrap(err, "failed to grant process access", errx.TypeInternal)
	}

	return nil
}

// Revoke retira el acceso de un usuario sobre un proceso
func (r *PostgresProcessRepository) Revoke(ctx context.Context, processID string, userID kernel.UserID) error {
	query := `DELETE FROM process_access WHERE process_id = $1 AND user_id = $2`

	_, err := r.db.ExecContext(ctx, query, processID, userID)
	if err != nil {
		return errx.Wrap(err, "failed to revoke process access", errx.TypeInternal)
	}

	return nil
}

// GrantsByProcess lista los usuarios con acceso otorgado a un proceso
func (r *PostgresProcessRepository) GrantsByProcess(ctx context.Context, processID string) ([]kernel.UserID, error) {
	query := `SELECT user_id FROM process_access WHERE process_id = $1 ORDER BY created_at`

	var userIDs []kernel.UserID
	err := r.db.SelectContext(ctx, &userIDs, query, processID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list process grants", errx.TypeInternal)
	}

	return userIDs, nil
}

// GrantedProcessIDs retorna los ids de proceso visibles para el usuario
func (r *PostgresProcessRepository) GrantedProcessIDs(ctx context.Context, userID kernel.UserID) ([]string, error) {
	query := `SELECT process_id FROM process_access WHERE user_id = $1`

	var ids []string
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list granted processes", errx.TypeInternal)
	}

	return ids, nil
}
