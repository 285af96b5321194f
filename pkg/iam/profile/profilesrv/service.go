package profilesrv

import (
	"context"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/iam/profile"
	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
)

// UserService proporciona operaciones de gestión de usuarios (perfiles + roles)
type UserService struct {
	profileRepo profile.ProfileRepository
	roleRepo    role.RoleRepository
}

// NewUserService crea una nueva instancia del servicio de usuarios
func NewUserService(profileRepo profile.ProfileRepository, roleRepo role.RoleRepository) *UserService {
	return &UserService{
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
	}
}

// ListUsers retorna todos los perfiles con su rol, unidos en memoria
func (s *UserService) ListUsers(ctx context.Context) (*profile.UserListResponse, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list profiles", errx.TypeInternal)
	}

	assignments, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list role assignments", errx.TypeInternal)
	}

	// Join perfiles ↔ roles por user_id
	roleByUser := make(map[kernel.UserID]role.Role, len(assignments))
	for _, a := range assignments {
		roleByUser[a.UserID] = a.Role
	}

	users := make([]profile.UserWithRole, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, profile.UserWithRole{
			ID:        p.ID,
			UserID:    p.UserID,
			Email:     p.Email,
			FullName:  p.FullName,
			IsActive:  p.IsActive,
			Role:      roleByUser[p.UserID],
			CreatedAt: p.CreatedAt,
		})
	}

	return &profile.UserListResponse{
		Users: users,
		Total: len(users),
	}, nil
}

// GetRole retorna el rol del usuario; RoleNone cuando no tiene
func (s *UserService) GetRole(ctx context.Context, userID kernel.UserID) (role.Role, error) {
	return s.roleRepo.FindByUser(ctx, userID)
}

// AssignRole asigna (o reemplaza) el rol de un usuario
func (s *UserService) AssignRole(ctx context.Context, req role.AssignRoleRequest) error {
	if !req.Role.IsValid() {
		return role.ErrInvalidRole().WithDetail("role", string(req.Role))
	}

	if _, err := s.profileRepo.FindByUser(ctx, req.UserID); err != nil {
		return profile.ErrProfileNotFound().WithDetail("user_id", req.UserID.String())
	}

	return s.roleRepo.Assign(ctx, req.UserID, req.Role)
}

// RemoveRole retira el rol del usuario, dejándolo sin permisos
func (s *UserService) RemoveRole(ctx context.Context, userID kernel.UserID) error {
	if _, err := s.profileRepo.FindByUser(ctx, userID); err != nil {
		return profile.ErrProfileNotFound().WithDetail("user_id", userID.String())
	}

	return s.roleRepo.Remove(ctx, userID)
}

// SetUserActive activa o desactiva un usuario
func (s *UserService) SetUserActive(ctx context.Context, userID kernel.UserID, active bool) error {
	return s.profileRepo.SetActive(ctx, userID, active)
}

// HrOfficeEmails retorna los emails de los usuarios activos con rol hr_office.
// Lo usa el worker de notificaciones para resolver destinatarios.
func (s *UserService) HrOfficeEmails(ctx context.Context) ([]string, error) {
	userIDs, err := s.roleRepo.FindUsersByRole(ctx, role.RoleHrOffice)
	if err != nil {
		return nil, errx.Wrap(err, "failed to find hr_office users", errx.TypeInternal)
	}
	if len(userIDs) == 0 {
		return nil, nil
	}

	profiles, err := s.profileRepo.FindByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, errx.Wrap(err, "failed to find hr_office profiles", errx.TypeInternal)
	}

	emails := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if p.IsActive && p.Email != "" {
			emails = append(emails, p.Email)
		}
	}

	return emails, nil
}
