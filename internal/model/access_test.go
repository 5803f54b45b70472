package model

import "testing"

func year(y AcademicYear) *AcademicYear {
	return &y
}

func TestEvaluateGate(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want GateOutcome
	}{
		{name: "no user", user: nil, want: GateSignIn},
		{name: "admin", user: &User{Role: Admin}, want: GateAdmin},
		{name: "admin ignores approval and year", user: &User{Role: Admin, Approved: false}, want: GateAdmin},
		{name: "student without year", user: &User{Role: Student}, want: GateOnboarding},
		{name: "approved student without year", user: &User{Role: Student, Approved: true}, want: GateOnboarding},
		{name: "student with invalid year", user: &User{Role: Student, Year: year("fifth")}, want: GateOnboarding},
		{name: "unapproved student with year", user: &User{Role: Student, Year: year(YearSecond)}, want: GatePending},
		{name: "approved student with year", user: &User{Role: Student, Approved: true, Year: year(YearThird)}, want: GateStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateGate(tt.user); got != tt.want {
				t.Errorf("EvaluateGate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGateProgression(t *testing.T) {
	u := &User{Role: Student}
	assert := func(want GateOutcome) {
		t.Helper()
		if got := EvaluateGate(u); got != want {
			t.Fatalf("EvaluateGate() = %v, want %v", got, want)
		}
	}

	// Fresh signup lands on onboarding.
	assert(GateOnboarding)

	// Picking a year moves to the pending view, not back to onboarding.
	u.Year = year(YearSecond)
	assert(GatePending)

	// Approval unlocks the student area.
	u.Approved = true
	assert(GateStudent)

	// Re-evaluating with identical inputs is stable.
	assert(GateStudent)
}

func TestGateOutcomeAllows(t *testing.T) {
	tests := []struct {
		name    string
		outcome GateOutcome
		area    GateOutcome
		want    bool
	}{
		{name: "student in student area", outcome: GateStudent, area: GateStudent, want: true},
		{name: "admin in student area", outcome: GateAdmin, area: GateStudent, want: true},
		{name: "admin in admin area", outcome: GateAdmin, area: GateAdmin, want: true},
		{name: "pending blocked from student area", outcome: GatePending, area: GateStudent, want: false},
		{name: "onboarding blocked from student area", outcome: GateOnboarding, area: GateStudent, want: false},
		{name: "student blocked from admin area", outcome: GateStudent, area: GateAdmin, want: false},
		{name: "signed out blocked everywhere", outcome: GateSignIn, area: GateStudent, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Allows(tt.area); got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}
