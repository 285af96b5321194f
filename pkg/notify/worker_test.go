package notify

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/iam/profile"
	"github.com/Abraxas-365/careerpath/pkg/iam/profile/profilesrv"
	"github.com/Abraxas-365/careerpath/pkg/iam/role"
	"github.com/Abraxas-365/careerpath/pkg/kernel"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/candidate"
	"github.com/hibiken/asynq"
)

// ============================================================================
// Fakes
// ============================================================================

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

type fakeMailer struct {
	mu       sync.Mutex
	sent     [][]string
	subjects []string
	bodies   []string
}

func (m *fakeMailer) Send(ctx context.Context, to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return nil
}

// ============================================================================
// Tests
// ============================================================================

func newWorkerFixture(profiles map[kernel.UserID]profile.Profile, roles map[kernel.UserID]role.Role) (*NotificationWorker, *fakeMailer) {
	users := profilesrv.NewUserService(
		&fakeProfileRepo{profiles: profiles},
		&fakeRoleRepo{roles: roles},
	)
	mailer := &fakeMailer{}
	return NewNotificationWorker(users, mailer), mailer
}

func passedTask(t *testing.T) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(candidate.PassedNotification{
		CandidateName:   "Jane Smith",
		CandidateEmail:  "jane@example.com",
		ProcessPosition: "Senior Backend Engineer",
		ProcessRole:     "Backend",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return asynq.NewTask(TaskCandidatePassed, payload)
}

func TestCandidatePassedNotifiesActiveHrOnly(t *testing.T) {
	hrActive := kernel.NewUserID("hr-active")
	hrInactive := kernel.NewUserID("hr-inactive")
	lead := kernel.NewUserID("lead-1")

	worker, mailer := newWorkerFixture(
		map[kernel.UserID]profile.Profile{
			hrActive:   {UserID: hrActive, Email: "hr@example.com", IsActive: true, CreatedAt: time.Now()},
			hrInactive: {UserID: hrInactive, Email: "gone@example.com", IsActive: false, CreatedAt: time.Now()},
			lead:       {UserID: lead, Email: "lead@example.com", IsActive: true, CreatedAt: time.Now()},
		},
		map[kernel.UserID]role.Role{
			hrActive:   role.RoleHrOffice,
			hrInactive: role.RoleHrOffice,
			lead:       role.RoleTeamLead,
		},
	)

	if err := worker.Handler().ProcessTask(context.Background(), passedTask(t)); err != nil {
		t.Fatalf("process task failed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}
	if len(mailer.sent[0]) != 1 || mailer.sent[0][0] != "hr@example.com" {
		t.Fatalf("expected only the active hr recipient, got %v", mailer.sent[0])
	}
	if !strings.Contains(mailer.subjects[0], "Jane Smith") {
		t.Fatalf("subject should carry the candidate name: %q", mailer.subjects[0])
	}
	for _, fact := range []string{"Jane Smith", "jane@example.com", "Senior Backend Engineer", "Backend"} {
		if !strings.Contains(mailer.bodies[0], fact) {
			t.Fatalf("body missing %q:\n%s", fact, mailer.bodies[0])
		}
	}
}

func TestCandidatePassedWithoutRecipientsIsNotRetried(t *testing.T) {
	worker, mailer := newWorkerFixture(
		map[kernel.UserID]profile.Profile{},
		map[kernel.UserID]role.Role{},
	)

	// Sin destinatarios el task termina sin error para que asynq no reintente
	if err := worker.Handler().ProcessTask(context.Background(), passedTask(t)); err != nil {
		t.Fatalf("task without recipients should succeed: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("no email should be sent without recipients")
	}
}

func TestCandidatePassedRejectsMalformedPayload(t *testing.T) {
	worker, _ := newWorkerFixture(map[kernel.UserID]profile.Profile{}, map[kernel.UserID]role.Role{})

	task := asynq.NewTask(TaskCandidatePassed, []byte("{not json"))
	if err := worker.Handler().ProcessTask(context.Background(), task); err == nil {
		t.Fatalf("malformed payload should fail")
	}
}
