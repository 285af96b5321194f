package candidateinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/candidate"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const candidateColumns = `
	id, process_id, name, email, linkedin_url, desired_price_range, rating,
	github_task_url, status, final_decision, final_decision_date, offer_status,
	offer_description, offer_start_date, offer_rejection_reason,
	offer_decision_date, created_by, created_at, updated_at`

// PostgresCandidateRepository implementa candidate.CandidateRepository usando PostgreSQL
type PostgresCandidateRepository struct {
	db *sqlx.DB
}

// NewPostgresCandidateRepository crea una nueva instancia del repositorio
func NewPostgresCandidateRepository(db *sqlx.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

// FindByID busca un candidato por su ID
func (r *PostgresCandidateRepository) FindByID(ctx context.Context, id string) (*candidate.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`

	var c candidate.Candidate
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, candidate.ErrCandidateNotFound()
		}
		return nil, errx.Wrap(err, "failed to find candidate", errx.TypeInternal)
	}

	return &c, nil
}

// FindByProcess retorna los candidatos de un proceso, más recientes primero
func (r *PostgresCandidateRepository) FindByProcess(ctx context.Context, processID string) ([]*candidate.Candidate, error) {
	query := `SELECT ` + candidateColumns + `
		FROM candidates
		WHERE process_id = $1
		ORDER BY created_at DESC`

	var candidates []*candidate.Candidate
	err := r.db.SelectContext(ctx, &candidates, query, processID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list candidates", errx.TypeInternal)
	}

	return candidates, nil
}

// FindAll retorna todos los candidatos, más recientes primero
func (r *PostgresCandidateRepository) FindAll(ctx context.Context) ([]*candidate.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY created_at DESC`

	var candidates []*candidate.Candidate
	err := r.db.SelectContext(ctx, &candidates, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list all candidates", errx.TypeInternal)
	}

	return candidates, nil
}

// FindReadyForOffer retorna candidatos aprobados con oferta pendiente o enviada
func (r *PostgresCandidateRepository) FindReadyForOffer(ctx context.Context) ([]*candidate.Candidate, error) {
	query := `SELECT ` + candidateColumns + `
		FROM candidates
		WHERE final_decision = 'pass'
		  AND offer_status IN ('pending', 'sent')
		ORDER BY final_decision_date DESC`

	var candidates []*candidate.Candidate
	err := r.db.SelectContext(ctx, &candidates, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list candidates ready for offer", errx.TypeInternal)
	}

	return candidates, nil
}

// FindPassed retorna candidatos aprobados, decisión más reciente primero
func (r *PostgresCandidateRepository) FindPassed(ctx context.Context) ([]*candidate.Candidate, error) {
	query := `SELECT ` + candidateColumns + `
		FROM candidates
		WHERE final_decision = 'pass'
		ORDER BY final_decision_date DESC`

	var candidates []*candidate.Candidate
	err := r.db.SelectContext(ctx, &candidates, query)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list passed candidates", errx.TypeInternal)
	}

	return candidates, nil
}

// Save inserta o actualiza un candidato
func (r *PostgresCandidateRepository) Save(ctx context.Context, c candidate.Candidate) error {
	query := `
		INSERT INTO candidates (
			id, process_id, name, email, linkedin_url, desired_price_range, rating,
			github_task_url, status, final_decision, final_decision_date, offer_status,
			offer_description, offer_start_date, offer_rejection_reason,
			offer_decision_date, created_by, created_at, updated_at
		) VALUES (
			:id, :process_id, :name, :email, :linkedin_url, :desired_price_range, :rating,
			:github_task_url, :status, :final_decision, :final_decision_date, :offer_status,
			:offer_description, :offer_start_date, :offer_rejection_reason,
			:offer_decision_date, :created_by, :created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			linkedin_url = EXCLUDED.linkedin_url,
			desired_price_range = EXCLUDED.desired_price_range,
			rating = EXCLUDED.rating,
			github_task_url = EXCLUDED.github_task_url,
			status = EXCLUDED.status,
			final_decision = EXCLUDED.final_decision,
			final_decision_date = EXCLUDED.final_decision_date,
			offer_status = EXCLUDED.offer_status,
			offer_description = EXCLUDED.offer_description,
			offer_start_date = EXCLUDED.offer_start_date,
			offer_rejection_reason = EXCLUDED.offer_rejection_reason,
			offer_decision_date = EXCLUDED.offer_decision_date,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return errx.Wrap(err, "failed to save candidate", errx.TypeInternal)
	}

	return nil
}

// Delete elimina un candidato y, en cascada, su historial
func (r *PostgresCandidateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return errx.Wrap(err, "failed to delete candidate", errx.TypeInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to check deletion result", errx.TypeInternal)
	}
	if rows == 0 {
		return candidate.ErrCandidateNotFound()
	}

	return nil
}

// AppendStatusUpdate agrega una entrada al historial del candidato
func (r *PostgresCandidateRepository) AppendStatusUpdate(ctx context.Context, update candidate.StatusUpdate) error {
	query := `
		INSERT INTO status_updates (id, candidate_id, status, description, decision, updated_by, created_at)
		VALUES (:id, :candidate_id, :status, :description, :decision, :updated_by, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, update)
	if err != nil {
		return errx.Wrap(err, "failed to append status update", errx.TypeInternal)
	}

	return nil
}

// HistoryByCandidate retorna el historial de un candidato en orden cronológico
func (r *PostgresCandidateRepository) HistoryByCandidate(ctx context.Context, candidateID string) ([]candidate.StatusUpdate, error) {
	query := `
		SELECT id, candidate_id, status, description, decision, updated_by, created_at
		FROM status_updates
		WHERE candidate_id = $1
		ORDER BY created_at ASC`

	var history []candidate.StatusUpdate
	err := r.db.SelectContext(ctx, &history, query, candidateID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load status history", errx.TypeInternal)
	}

	return history, nil
}

// HistoryByCandidates trae el historial de varios candidatos en una sola
// consulta y lo agrupa por candidato
func (r *PostgresCandidateRepository) HistoryByCandidates(ctx context.Context, candidateIDs []string) (map[string][]candidate.StatusUpdate, error) {
	grouped := make(map[string][]candidate.StatusUpdate)
	if len(candidateIDs) == 0 {
		return grouped, nil
	}

	query := `
		SELECT id, candidate_id, status, description, decision, updated_by, created_at
		FROM status_updates
		WHERE candidate_id = ANY($1)
		ORDER BY created_at ASC`

	var updates []candidate.StatusUpdate
	err := r.db.SelectContext(ctx, &updates, query, pq.Array(candidateIDs))
	if err != nil {
		return nil, errx.Wrap(err, "failed to load status histories", errx.TypeInternal)
	}

	for _, u := range updates {
		grouped[u.CandidateID] = append(grouped[u.CandidateID], u)
	}

	return grouped, nil
}

// CountByProcess cuenta candidatos agrupando por proceso
func (r *PostgresCandidateRepository) CountByProcess(ctx context.Context, processIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(processIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT process_id, COUNT(*) AS total
		FROM candidates
		WHERE process_id = ANY($1)
		GROUP BY process_id`

	rows := []struct {
		ProcessID string `db:"process_id"`
		Total     int    `db:"total"`
	}{}
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(processIDs))
	if err != nil {
		return nil, errx.Wrap(err, "failed to count candidates", errx.TypeInternal)
	}

	for _, row := range rows {
		counts[row.ProcessID] = row.Total
	}

	return counts, nil
}
