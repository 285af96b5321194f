package candidatesrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/kernel"
	"github.com/Abraxas-365/careerpath/pkg/logx"
	"github.com/Abraxas-365/careerpath/pkg/ptrx"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/candidate"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/process"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/process/processsrv"
	"github.com/google/uuid"
)

// CandidateService orquesta el ciclo de vida de los candidatos: pipeline de
// etapas, decisión final y sub-flujo de oferta
type CandidateService struct {
	candidateRepo candidate.CandidateRepository
	processes     *processsrv.ProcessService
	notifier      candidate.PassedNotifier
}

// NewCandidateService crea una nueva instancia del servicio
func NewCandidateService(
	candidateRepo candidate.CandidateRepository,
	processes *processsrv.ProcessService,
	notifier candidate.PassedNotifier,
) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		processes:     processes,
		notifier:      notifier,
	}
}

// ============================================================================
// Queries
// ============================================================================

// ListCandidates retorna los candidatos de un proceso con su historial
// completo. El historial se trae en una sola consulta y se une en memoria.
func (s *CandidateService) ListCandidates(ctx context.Context, auth *kernel.AuthContext, processID string) (*candidate.CandidateListResponse, error) {
	if _, err := s.processes.GetProcess(ctx, auth, processID); err != nil {
		return nil, err
	}

	candidates, err := s.candidateRepo.FindByProcess(ctx, processID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	histories, err := s.candidateRepo.HistoryByCandidates(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]candidate.CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		normalizeCandidate(c)
		responses = append(responses, candidate.CandidateResponse{
			Candidate:     *c,
			StatusHistory: historyOrEmpty(histories[c.ID]),
		})
	}

	return &candidate.CandidateListResponse{
		Candidates: responses,
		Total:      len(responses),
	}, nil
}

// GetCandidate retorna un candidato con su historial
func (s *CandidateService) GetCandidate(ctx context.Context, auth *kernel.AuthContext, candidateID string) (*candidate.CandidateResponse, error) {
	c, err := s.findAccessible(ctx, auth, candidateID)
	if err != nil {
		return nil, err
	}

	history, err := s.candidateRepo.HistoryByCandidate(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return &candidate.CandidateResponse{
		Candidate:     *c,
		StatusHistory: historyOrEmpty(history),
	}, nil
}

// ListAll retorna todos los candidatos de los procesos visibles, con los
// datos del proceso unidos en memoria
func (s *CandidateService) ListAll(ctx context.Context, auth *kernel.AuthContext) (*candidate.CandidateWithProcessListResponse, error) {
	return s.listWithProcess(ctx, auth, s.candidateRepo.FindAll)
}

// ReadyForOffer retorna los candidatos aprobados con oferta pendiente o enviada
func (s *CandidateService) ReadyForOffer(ctx context.Context, auth *kernel.AuthContext) (*candidate.CandidateWithProcessListResponse, error) {
	return s.listWithProcess(ctx, auth, s.candidateRepo.FindReadyForOffer)
}

// OfferHistory retorna los candidatos aprobados, decisión más reciente primero
func (s *CandidateService) OfferHistory(ctx context.Context, auth *kernel.AuthContext) (*candidate.CandidateWithProcessListResponse, error) {
	return s.listWithProcess(ctx, auth, s.candidateRepo.FindPassed)
}

// ============================================================================
// Commands
// ============================================================================

// AddCandidate agrega un candidato a un proceso en la etapa inicial. Si se
// dio una descripción, registra la primera entrada del historial.
func (s *CandidateService) AddCandidate(ctx context.Context, auth *kernel.AuthContext, processID string, req candidate.AddCandidateRequest) (*candidate.CandidateResponse, error) {
	if _, err := s.processes.GetProcess(ctx, auth, processID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, candidate.ErrMissingField("name")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, candidate.ErrMissingField("email")
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 10) {
		return nil, candidate.ErrInvalidRating(*req.Rating)
	}

	now := time.Now()
	c := candidate.Candidate{
		ID:                uuid.NewString(),
		ProcessID:         processID,
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.TrimSpace(req.Email),
		LinkedInURL:       req.LinkedInURL,
		DesiredPriceRange: req.DesiredPriceRange,
		Rating:            req.Rating,
		Status:            candidate.StatusInitial,
		CreatedBy:         auth.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.candidateRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	history := []candidate.StatusUpdate{}
	if req.StatusDescription != nil && strings.TrimSpace(*req.StatusDescription) != "" {
		update := candidate.StatusUpdate{
			ID:          uuid.NewString(),
			CandidateID: c.ID,
			Status:      candidate.StatusInitial,
			Description: strings.TrimSpace(*req.StatusDescription),
			UpdatedBy:   ptrx.String(auth.DisplayName()),
			CreatedAt:   now,
		}
		if err := s.candidateRepo.AppendStatusUpdate(ctx, update); err != nil {
			return nil, err
		}
		history = append(history, update)
	}

	return &candidate.CandidateResponse{
		Candidate:     c,
		StatusHistory: history,
	}, nil
}

// UpdateStatus mueve al candidato a una etapa del pipeline. Siempre agrega
// la entrada al historial; la decisión terminal es first-write-wins y un
// pass en la etapa final abre la oferta y notifica a HR (fire-and-forget).
func (s *CandidateService) UpdateStatus(ctx context.Context, auth *kernel.AuthContext, candidateID string, req candidate.UpdateStatusRequest) (*candidate.CandidateResponse, error) {
	c, err := s.findAccessible(ctx, auth, candidateID)
	if err != nil {
		return nil, err
	}

	newStatus, ok := candidate.ParseStatus(req.Status)
	if !ok {
		return nil, candidate.ErrInvalidStatus(req.Status)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, candidate.ErrBlankDescription()
	}

	var decision *candidate.Decision
	if req.Decision != nil {
		d := candidate.Decision(*req.Decision)
		if !d.IsValid() {
			return nil, candidate.ErrInvalidDecision(*req.Decision)
		}
		decision = &d
	}

	now := time.Now()
	update := candidate.StatusUpdate{
		ID:          uuid.NewString(),
		CandidateID: c.ID,
		Status:      newStatus,
		Description: strings.TrimSpace(req.Description),
		Decision:    decision,
		UpdatedBy:   ptrx.String(auth.DisplayName()),
		CreatedAt:   now,
	}
	if err := s.candidateRepo.AppendStatusUpdate(ctx, update); err != nil {
		return nil, err
	}

	c.Status = newStatus
	if req.GithubTaskURL != nil {
		c.GithubTaskURL = req.GithubTaskURL
	}

	newlyPassed := false
	if decision != nil {
		switch *decision {
		case candidate.DecisionFail:
			c.RecordFail(now)
		case candidate.DecisionPass:
			if newStatus.IsTerminal() {
				newlyPassed = c.RecordPass(now)
			}
		}
	}

	c.UpdatedAt = now
	if err := s.candidateRepo.Save(ctx, *c); err != nil {
		return nil, err
	}

	// La notificación se despacha después de confirmar la escritura y nunca
	// falla la operación
	if newlyPassed {
		s.notifyPassed(ctx, c)
	}

	history, err := s.candidateRepo.HistoryByCandidate(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return &candidate.CandidateResponse{
		Candidate:     *c,
		StatusHistory: historyOrEmpty(history),
	}, nil
}

// UpdateOffer avanza el sub-flujo de oferta de un candidato aprobado
func (s *CandidateService) UpdateOffer(ctx context.Context, auth *kernel.AuthContext, candidateID string, req candidate.UpdateOfferRequest) (*candidate.CandidateResponse, error) {
	c, err := s.findAccessible(ctx, auth, candidateID)
	if err != nil {
		return nil, err
	}

	next := candidate.OfferStatus(req.OfferStatus)
	if !next.IsValid() {
		return nil, candidate.ErrInvalidOfferStatus(req.OfferStatus)
	}

	var startDate *time.Time
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := time.Parse(time.DateOnly, *req.StartDate)
		if err != nil {
			return nil, candidate.ErrInvalidDate("start_date")
		}
		startDate = &parsed
	}

	now := time.Now()
	if err := c.ApplyOfferTransition(next, req.Description, req.RejectionReason, startDate, now); err != nil {
		return nil, err
	}

	c.UpdatedAt = now
	if err := s.candidateRepo.Save(ctx, *c); err != nil {
		return nil, err
	}

	history, err := s.candidateRepo.HistoryByCandidate(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return &candidate.CandidateResponse{
		Candidate:     *c,
		StatusHistory: historyOrEmpty(history),
	}, nil
}

// DeleteCandidate elimina un candidato y su historial
func (s *CandidateService) DeleteCandidate(ctx context.Context, auth *kernel.AuthContext, candidateID string) error {
	c, err := s.findAccessible(ctx, auth, candidateID)
	if err != nil {
		return err
	}

	return s.candidateRepo.Delete(ctx, c.ID)
}

// ============================================================================
// Helpers
// ============================================================================

// findAccessible busca el candidato y verifica el acceso vía su proceso
func (s *CandidateService) findAccessible(ctx context.Context, auth *kernel.AuthContext, candidateID string) (*candidate.Candidate, error) {
	c, err := s.candidateRepo.FindByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	if _, err := s.processes.GetProcess(ctx, auth, c.ProcessID); err != nil {
		return nil, err
	}

	normalizeCandidate(c)
	return c, nil
}

// listWithProcess filtra candidatos a los procesos visibles y une en memoria
// la posición y el rol del proceso
func (s *CandidateService) listWithProcess(ctx context.Context, auth *kernel.AuthContext, fetch func(context.Context) ([]*candidate.Candidate, error)) (*candidate.CandidateWithProcessListResponse, error) {
	visible, err := s.processes.ListProcesses(ctx, auth)
	if err != nil {
		return nil, err
	}

	processByID := make(map[string]process.ProcessResponse, len(visible.Processes))
	for _, p := range visible.Processes {
		processByID[p.ID] = p
	}

	candidates, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]candidate.CandidateWithProcess, 0, len(candidates))
	for _, c := range candidates {
		p, ok := processByID[c.ProcessID]
		if !ok {
			continue
		}
		normalizeCandidate(c)
		result = append(result, candidate.CandidateWithProcess{
			Candidate:       *c,
			ProcessPosition: p.Position,
			ProcessRole:     p.Role,
		})
	}

	return &candidate.CandidateWithProcessListResponse{
		Candidates: result,
		Total:      len(result),
	}, nil
}

func (s *CandidateService) notifyPassed(ctx context.Context, c *candidate.Candidate) {
	notification := candidate.PassedNotification{
		CandidateName:  c.Name,
		CandidateEmail: c.Email,
	}

	p, err := s.processes.FindProcess(ctx, c.ProcessID)
	if err != nil {
		logx.WithFields(logx.Fields{
			"candidate_id": c.ID,
			"process_id":   c.ProcessID,
			"error":        err.Error(),
		}).Warn("Could not load process facts for HR notification")
	} else {
		notification.ProcessPosition = p.Position
		notification.ProcessRole = p.Role
	}

	if err := s.notifier.NotifyCandidatePassed(ctx, notification); err != nil {
		logx.WithFields(logx.Fields{
			"candidate_id": c.ID,
			"error":        err.Error(),
		}).Warn("Could not dispatch HR notification")
	}
}

// normalizeCandidate mapea estados de esquemas anteriores al enum vigente
func normalizeCandidate(c *candidate.Candidate) {
	if mapped, ok := candidate.ParseStatus(string(c.Status)); ok {
		c.Status = mapped
	}
}

func historyOrEmpty(history []candidate.StatusUpdate) []candidate.StatusUpdate {
	if history == nil {
		return []candidate.StatusUpdate{}
	}
	return history
}
