package profilesrv

import (
	"context"
	"sync"
	"testing"

	"github.com/Abraxas-365/careerpath/pkg/iam/profile"
	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
)

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[kernel.UserID]profile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[kernel.UserID]profile.Profile)}
}

func (r *fakeProfileRepo) FindByUser(ctx context.Context, userID kernel.UserID) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound()
	}
	return &p, nil
}

func (r *fakeProfileRepo) FindAll(ctx context.Context) ([]*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*profile.Profile
	for id := range r.profiles {
		p := r.profiles[id]
		all = append(all, &p)
	}
	return all, nil
}

func (r *fakeProfileRepo) FindByUserIDs(ctx context.Context, userIDs []kernel.UserID) ([]*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []*profile.Profile
	for _, id := range userIDs {
		if p, ok := r.profiles[id]; ok {
			copied := p
			found = append(found, &copied)
		}
	}
	return found, nil
}

func (r *fakeProfileRepo) SetActive(ctx context.Context, userID kernel.UserID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return profile.ErrProfileNotFound()
	}
	p.IsActive = active
	r.profiles[userID] = p
	return nil
}

type fakeRoleRepo struct {
	mu    sync.Mutex
	roles map[kernel.UserID]role.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[kernel.UserID]role.Role)}
}

func (r *fakeRoleRepo) FindByUser(ctx context.Context, userID kernel.UserID) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if assigned, ok := r.roles[userID]; ok {
		return assigned, nil
	}
	return role.RoleNone, nil
}

func (r *fakeRoleRepo) FindAll(ctx context.Context) ([]*role.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*role.Assignment
	for userID, assigned := range r.roles {
		all = append(all, &role.Assignment{UserID: userID, Role: assigned})
	}
	return all, nil
}

func (r *fakeRoleRepo) FindUsersByRole(ctx context.Context, target role.Role) ([]kernel.UserID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var userIDs []kernel.UserID
	for userID, assigned := range r.roles {
		if assigned == target {
			userIDs = append(userIDs, userID)
		}
	}
	return userIDs, nil
}

func (r *fakeRoleRepo) Assign(ctx context.Context, userID kernel.UserID, assigned role.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[userID] = assigned
	return nil
}

func (r *fakeRoleRepo) Remove(ctx context.Context, userID kernel.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roles, userID)
	return nil
}

func TestListUsersJoinsRoles(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	roleRepo := newFakeRoleRepo()
	svc := NewUserService(profileRepo, roleRepo)

	hr := kernel.NewUserID("hr-1")
	lead := kernel.NewUserID("lead-1")
	profileRepo.profiles[hr] = profile.Profile{ID: "p1", UserID: hr, Email: "hr@example.com", IsActive: true}
	profileRepo.profiles[lead] = profile.Profile{ID: "p2", UserID: lead, Email: "lead@example.com", IsActive: true}
	roleRepo.roles[hr] = role.RoleHrOffice

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if users.Total != 2 {
		t.Fatalf("expected 2 users, got %d", users.Total)
	}

	byEmail := make(map[string]role.Role)
	for _, u := range users.Users {
		byEmail[u.Email] = u.Role
	}
	if byEmail["hr@example.com"] != role.RoleHrOffice {
		t.Fatalf("hr role not joined: %v", byEmail)
	}
	if byEmail["lead@example.com"] != role.RoleNone {
		t.Fatalf("user without assignment should report no role, got %v", byEmail["lead@example.com"])
	}
}

func TestAssignRoleValidation(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	roleRepo := newFakeRoleRepo()
	svc := NewUserService(profileRepo, roleRepo)

	existing := kernel.NewUserID("user-1")
	profileRepo.profiles[existing] = profile.Profile{ID: "p1", UserID: existing, Email: "u@example.com", IsActive: true}

	if err := svc.AssignRole(context.Background(), role.AssignRoleRequest{UserID: existing, Role: "superadmin"}); err == nil {
		t.Fatalf("unknown role should be rejected")
	}
	if err := svc.AssignRole(context.Background(), role.AssignRoleRequest{UserID: kernel.NewUserID("ghost"), Role: role.RoleTeamLead}); err == nil {
		t.Fatalf("role for unknown profile should be rejected")
	}

	if err := svc.AssignRole(context.Background(), role.AssignRoleRequest{UserID: existing, Role: role.RoleTeamLead}); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	got, err := svc.GetRole(context.Background(), existing)
	if err != nil || got != role.RoleTeamLead {
		t.Fatalf("GetRole = (%v, %v), want team_lead", got, err)
	}
}

func TestRemoveRoleLeavesUserWithoutPermissions(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	roleRepo := newFakeRoleRepo()
	svc := NewUserService(profileRepo, roleRepo)

	existing := kernel.NewUserID("user-1")
	profileRepo.profiles[existing] = profile.Profile{ID: "p1", UserID: existing, Email: "u@example.com", IsActive: true}
	roleRepo.roles[existing] = role.RoleTeamLead

	if err := svc.RemoveRole(context.Background(), kernel.NewUserID("ghost")); err == nil {
		t.Fatalf("removing the role of an unknown profile should fail")
	}

	if err := svc.RemoveRole(context.Background(), existing); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	got, err := svc.GetRole(context.Background(), existing)
	if err != nil || got != role.RoleNone {
		t.Fatalf("GetRole = (%v, %v), want none after removal", got, err)
	}
}

func TestHrOfficeEmailsFiltersInactive(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	roleRepo := newFakeRoleRepo()
	svc := NewUserService(profileRepo, roleRepo)

	active := kernel.NewUserID("hr-1")
	inactive := kernel.NewUserID("hr-2")
	profileRepo.profiles[active] = profile.Profile{ID: "p1", UserID: active, Email: "hr@example.com", IsActive: true}
	profileRepo.profiles[inactive] = profile.Profile{ID: "p2", UserID: inactive, Email: "old@example.com", IsActive: false}
	roleRepo.roles[active] = role.RoleHrOffice
	roleRepo.roles[inactive] = role.RoleHrOffice

	emails, err := svc.HrOfficeEmails(context.Background())
	if err != nil {
		t.Fatalf("hr emails failed: %v", err)
	}
	if len(emails) != 1 || emails[0] != "hr@example.com" {
		t.Fatalf("expected only the active hr email, got %v", emails)
	}
}
