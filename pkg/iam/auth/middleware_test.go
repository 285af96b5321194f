package auth

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/iam/profile"
	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeRoleRepo struct {
	mu    sync.Mutex
	roles map[kernel.UserID]role.Role
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

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[kernel.UserID]profile.Profile
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

// ============================================================================
// Tests
// ============================================================================

func newMiddlewareFixture(profiles map[kernel.UserID]profile.Profile, roles map[kernel.UserID]role.Role) (*TokenMiddleware, *JWTService) {
	svc := newTestJWTService(time.Hour)
	m := NewTokenMiddleware(svc, &fakeRoleRepo{roles: roles}, &fakeProfileRepo{profiles: profiles})
	return m, svc
}

func newProtectedApp(m *TokenMiddleware, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*errx.Error); ok {
				return c.Status(e.HTTPStatus).JSON(fiber.Map{"error": e.Message, "code": e.Code})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	handlers := append([]fiber.Handler{m.Authenticate()}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/protected", handlers...)
	return app
}

func protectedRequest(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	m, _ := newMiddlewareFixture(map[kernel.UserID]profile.Profile{}, map[kernel.UserID]role.Role{})
	app := newProtectedApp(m)

	if status := protectedRequest(t, app, ""); status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	if status := protectedRequest(t, app, "not-a-token"); status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}

func TestAuthenticateBlocksInactiveUser(t *testing.T) {
	userID := kernel.NewUserID("user-1")
	m, svc := newMiddlewareFixture(
		map[kernel.UserID]profile.Profile{
			userID: {ID: "p1", UserID: userID, Email: "u@example.com", IsActive: false},
		},
		map[kernel.UserID]role.Role{userID: role.RoleHrOffice},
	)
	app := newProtectedApp(m)

	token, err := svc.GenerateAccessToken(userID, "u@example.com", "U")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if status := protectedRequest(t, app, token); status != fiber.StatusForbidden {
		t.Fatalf("deactivated user should be blocked, got %d", status)
	}
}

func TestAuthenticateAllowsUserWithoutProjectedProfile(t *testing.T) {
	userID := kernel.NewUserID("user-1")
	m, svc := newMiddlewareFixture(map[kernel.UserID]profile.Profile{}, map[kernel.UserID]role.Role{})
	app := newProtectedApp(m)

	token, err := svc.GenerateAccessToken(userID, "u@example.com", "U")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if status := protectedRequest(t, app, token); status != fiber.StatusOK {
		t.Fatalf("user without a projected profile should pass, got %d", status)
	}
}

func TestRequireRoleForbidsInsufficientRole(t *testing.T) {
	hrID := kernel.NewUserID("hr-1")
	leadID := kernel.NewUserID("lead-1")
	m, svc := newMiddlewareFixture(
		map[kernel.UserID]profile.Profile{
			hrID:   {ID: "p1", UserID: hrID, Email: "hr@example.com", IsActive: true},
			leadID: {ID: "p2", UserID: leadID, Email: "lead@example.com", IsActive: true},
		},
		map[kernel.UserID]role.Role{
			hrID:   role.RoleHrOffice,
			leadID: role.RoleTeamLead,
		},
	)
	app := newProtectedApp(m, m.RequireRole(role.IsHrOffice))

	hrToken, err := svc.GenerateAccessToken(hrID, "hr@example.com", "HR")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	leadToken, err := svc.GenerateAccessToken(leadID, "lead@example.com", "Lead")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if status := protectedRequest(t, app, hrToken); status != fiber.StatusOK {
		t.Fatalf("hr should pass the hr-only gate, got %d", status)
	}
	if status := protectedRequest(t, app, leadToken); status != fiber.StatusForbidden {
		t.Fatalf("team_lead should be forbidden on the hr-only gate, got %d", status)
	}
}
