package role

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"hr_office", RoleHrOffice},
		{"team_lead", RoleTeamLead},
		{"director_of_engineering", RoleDirectorOfEngineering},
		{"", RoleNone},
		{"superadmin", RoleNone},
	}

	for _, tc := range cases {
		if got := Parse(tc.raw); got != tc.want {
			t.Fatalf("Parse(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCanManageProcesses(t *testing.T) {
	if !CanManageProcesses(RoleHrOffice) {
		t.Fatalf("hr_office should manage processes")
	}
	if CanManageProcesses(RoleTeamLead) {
		t.Fatalf("team_lead should not manage processes")
	}
	if CanManageProcesses(RoleDirectorOfEngineering) {
		t.Fatalf("director should not manage processes")
	}
}

func TestCanManageCandidates(t *testing.T) {
	if !CanManageCandidates(RoleHrOffice) {
		t.Fatalf("hr_office should manage candidates")
	}
	if !CanManageCandidates(RoleTeamLead) {
		t.Fatalf("team_lead should manage candidates")
	}
	if CanManageCandidates(RoleDirectorOfEngineering) {
		t.Fatalf("director should not manage candidates")
	}
	if CanManageCandidates(RoleNone) {
		t.Fatalf("unassigned role should not manage candidates")
	}
}

func TestIsViewOnly(t *testing.T) {
	if !IsViewOnly(RoleDirectorOfEngineering) {
		t.Fatalf("director should be view-only")
	}
	if IsViewOnly(RoleTeamLead) {
		t.Fatalf("team_lead should not be view-only")
	}
	if IsViewOnly(RoleHrOffice) {
		t.Fatalf("hr_office should not be view-only")
	}
}
