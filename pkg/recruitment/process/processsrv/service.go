package processsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
	"github.com/Abraxas-365/careerpath/pkg/logx"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/process"
	"github.com/google/uuid"
)

// ProcessService orquesta el ciclo de vida de los procesos de selección
type ProcessService struct {
	processRepo process.ProcessRepository
	counter     process.CandidateCounter
}

// NewProcessService crea una nueva instancia del servicio
func NewProcessService(processRepo process.ProcessRepository, counter process.CandidateCounter) *ProcessService {
	return &ProcessService{
		processRepo: processRepo,
		counter:     counter,
	}
}

// ============================================================================
// Queries
// ============================================================================

// ListProcesses retorna los procesos visibles para el usuario, más recientes
// primero. El director de ingeniería ve todos; el resto ve los propios y los
// que le fueron otorgados.
func (s *ProcessService) ListProcesses(ctx context.Context, auth *kernel.AuthContext) (*process.ProcessListResponse, error) {
	all, err := s.processRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	visible := all
	if !role.IsViewOnly(role.Parse(auth.Role)) {
		visible, err = s.filterByAccess(ctx, all, auth)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	responses := make([]process.ProcessResponse, 0, len(visible))
	for _, p := range visible {
		responses = append(responses, p.ToResponse(now))
	}

	return &process.ProcessListResponse{
		Processes: responses,
		Total:     len(responses),
	}, nil
}

// GetProcess retorna un proceso si el usuario tiene acceso a él
func (s *ProcessService) GetProcess(ctx context.Context, auth *kernel.AuthContext, id string) (*process.ProcessResponse, error) {
	p, err := s.findAccessible(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	resp := p.ToResponse(time.Now())
	return &resp, nil
}

// FindProcess retorna un proceso sin evaluar acceso. Es para uso entre
// servicios; las rutas HTTP pasan siempre por GetProcess.
func (s *ProcessService) FindProcess(ctx context.Context, id string) (*process.InterviewProcess, error) {
	return s.processRepo.FindByID(ctx, id)
}

// CountCandidates retorna el número de candidatos por proceso, contando solo
// los procesos visibles para el usuario. Todo proceso pedido aparece en el
// mapa, con 0 si no tiene candidatos o no es visible.
func (s *ProcessService) CountCandidates(ctx context.Context, auth *kernel.AuthContext, processIDs []string) (*process.CandidateCountsResponse, error) {
	requested, err := s.processRepo.FindByIDs(ctx, processIDs)
	if err != nil {
		return nil, err
	}

	visible := requested
	if !role.IsViewOnly(role.Parse(auth.Role)) {
		visible, err = s.filterByAccess(ctx, requested, auth)
		if err != nil {
			return nil, err
		}
	}

	counts := make(map[string]int, len(processIDs))
	if len(visible) > 0 {
		visibleIDs := make([]string, 0, len(visible))
		for _, p := range visible {
			visibleIDs = append(visibleIDs, p.ID)
		}
		counts, err = s.counter.CountByProcess(ctx, visibleIDs)
		if err != nil {
			return nil, err
		}
	}

	for _, id := range processIDs {
		if _, ok := counts[id]; !ok {
			counts[id] = 0
		}
	}

	return &process.CandidateCountsResponse{Counts: counts}, nil
}

// ============================================================================
// Commands
// ============================================================================

// CreateProcess crea un proceso y otorga acceso inicial a los usuarios pedidos.
// Los otorgamientos son best-effort: si uno falla se loguea y la creación
// igual se considera exitosa.
func (s *ProcessService) CreateProcess(ctx context.Context, auth *kernel.AuthContext, req process.CreateProcessRequest) (*process.ProcessResponse, error) {
	startDate, endDate, err := validateProcessFields(req.Position, req.Role, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := process.InterviewProcess{
		ID:        uuid.NewString(),
		Position:  strings.TrimSpace(req.Position),
		Role:      strings.TrimSpace(req.Role),
		StartDate: startDate,
		EndDate:   endDate,
		CreatedBy: auth.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.processRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	for _, userID := range req.AccessUserIDs {
		if userID.IsEmpty() {
			continue
		}
		if err := s.processRepo.Grant(ctx, p.ID, userID); err != nil {
			logx.WithFields(logx.Fields{
				"process_id": p.ID,
				"user_id":    userID.String(),
				"error":      err.Error(),
			}).Warn("Could not grant initial process access")
		}
	}

	resp := p.ToResponse(now)
	return &resp, nil
}

// UpdateProcess sobreescribe los campos editables de un proceso,
// re-validando el orden de las fechas
func (s *ProcessService) UpdateProcess(ctx context.Context, auth *kernel.AuthContext, id string, req process.UpdateProcessRequest) (*process.ProcessResponse, error) {
	p, err := s.findAccessible(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	startDate, endDate, err := validateProcessFields(req.Position, req.Role, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	p.Position = strings.TrimSpace(req.Position)
	p.Role = strings.TrimSpace(req.Role)
	p.StartDate = startDate
	p.EndDate = endDate
	p.UpdatedAt = time.Now()

	if err := s.processRepo.Save(ctx, *p); err != nil {
		return nil, err
	}

	resp := p.ToResponse(p.UpdatedAt)
	return &resp, nil
}

// DeleteProcess elimina un proceso y, en cascada, sus candidatos y accesos
func (s *ProcessService) DeleteProcess(ctx context.Context, auth *kernel.AuthContext, id string) error {
	if _, err := s.findAccessible(ctx, auth, id); err != nil {
		return err
	}

	return s.processRepo.Delete(ctx, id)
}

// ============================================================================
// Access Management
// ============================================================================

// ListAccess lista los usuarios con acceso otorgado a un proceso
func (s *ProcessService) ListAccess(ctx context.Context, auth *kernel.AuthContext, processID string) (*process.AccessListResponse, error) {
	if _, err := s.findAccessible(ctx, auth, processID); err != nil {
		return nil, err
	}

	userIDs, err := s.processRepo.GrantsByProcess(ctx, processID)
	if err != nil {
		return nil, err
	}

	return &process.AccessListResponse{
		ProcessID: processID,
		UserIDs:   userIDs,
	}, nil
}

// GrantAccess otorga acceso de lectura sobre un proceso a un usuario
func (s *ProcessService) GrantAccess(ctx context.Context, auth *kernel.AuthContext, processID string, req process.GrantAccessRequest) error {
	if req.UserID.IsEmpty() {
		return process.ErrMissingField("user_id")
	}

	if _, err := s.findAccessible(ctx, auth, processID); err != nil {
		return err
	}

	return s.processRepo.Grant(ctx, processID, req.UserID)
}

// RevokeAccess retira el acceso de un usuario sobre un proceso
func (s *ProcessService) RevokeAccess(ctx context.Context, auth *kernel.AuthContext, processID string, userID kernel.UserID) error {
	if _, err := s.findAccessible(ctx, auth, processID); err != nil {
		return err
	}

	return s.processRepo.Revoke(ctx, processID, userID)
}

// ============================================================================
// Helpers
// ============================================================================

// findAccessible busca el proceso y verifica que el usuario pueda verlo
func (s *ProcessService) findAccessible(ctx context.Context, auth *kernel.AuthContext, id string) (*process.InterviewProcess, error) {
	p, err := s.processRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.canView(ctx, p, auth)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, process.ErrAccessDenied()
	}

	return p, nil
}

func (s *ProcessService) canView(ctx context.Context, p *process.InterviewProcess, auth *kernel.AuthContext) (bool, error) {
	if role.IsViewOnly(role.Parse(auth.Role)) {
		return true, nil
	}
	if auth.UserID == nil {
		return false, nil
	}
	if p.IsOwnedBy(*auth.UserID) {
		return true, nil
	}

	grantedIDs, err := s.processRepo.GrantedProcessIDs(ctx, *auth.UserID)
	if err != nil {
		return false, err
	}
	for _, id := range grantedIDs {
		if id == p.ID {
			return true, nil
		}
	}

	return false, nil
}

func (s *ProcessService) filterByAccess(ctx context.Context, all []*process.InterviewProcess, auth *kernel.AuthContext) ([]*process.InterviewProcess, error) {
	if auth.UserID == nil {
		return []*process.InterviewProcess{}, nil
	}

	grantedIDs, err := s.processRepo.GrantedProcessIDs(ctx, *auth.UserID)
	if err != nil {
		return nil, err
	}

	granted := make(map[string]struct{}, len(grantedIDs))
	for _, id := range grantedIDs {
		granted[id] = struct{}{}
	}

	visible := make([]*process.InterviewProcess, 0, len(all))
	for _, p := range all {
		if p.IsOwnedBy(*auth.UserID) {
			visible = append(visible, p)
			continue
		}
		if _, ok := granted[p.ID]; ok {
			visible = append(visible, p)
		}
	}

	return visible, nil
}

// validateProcessFields valida campos obligatorios y parsea las fechas
func validateProcessFields(position, roleName, startDate, endDate string) (time.Time, time.Time, error) {
	var zero time.Time

	if strings.TrimSpace(position) == "" {
		return zero, zero, process.ErrMissingField("position")
	}
	if strings.TrimSpace(roleName) == "" {
		return zero, zero, process.ErrMissingField("role")
	}
	if strings.TrimSpace(startDate) == "" {
		return zero, zero, process.ErrMissingField("start_date")
	}
	if strings.TrimSpace(endDate) == "" {
		return zero, zero, process.ErrMissingField("end_date")
	}

	start, err := time.Parse(time.DateOnly, startDate)
	if err != nil {
		return zero, zero, process.ErrInvalidDate("start_date")
	}
	end, err := time.Parse(time.DateOnly, endDate)
	if err != nil {
		return zero, zero, process.ErrInvalidDate("end_date")
	}

	if end.Before(start) {
		return zero, zero, process.ErrInvalidDateRange()
	}

	return start, end, nil
}
