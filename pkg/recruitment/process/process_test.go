package process

import (
	"testing"
	"time"

	"github.com/Abraxas-365/careerpath/pkg/kernel"
)

func TestIsActive(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		endDate time.Time
		want    bool
	}{
		{"ends tomorrow", now.AddDate(0, 0, 1), true},
		{"ends today", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"ended yesterday", now.AddDate(0, 0, -1), false},
		{"ended last month", now.AddDate(0, -1, 0), false},
	}

	for _, tc := range cases {
		p := &InterviewProcess{EndDate: tc.endDate}
		if got := p.IsActive(now); got != tc.want {
			t.Fatalf("%s: IsActive = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsOwnedBy(t *testing.T) {
	owner := kernel.NewUserID("user-1")
	other := kernel.NewUserID("user-2")

	p := &InterviewProcess{CreatedBy: &owner}
	if !p.IsOwnedBy(owner) {
		t.Fatalf("expected process owned by creator")
	}
	if p.IsOwnedBy(other) {
		t.Fatalf("process should not be owned by another user")
	}

	orphan := &InterviewProcess{}
	if orphan.IsOwnedBy(owner) {
		t.Fatalf("process without creator should not be owned")
	}
}
