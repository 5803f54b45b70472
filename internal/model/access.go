package model

// GateOutcome is the routing decision for a protected entry point. The
// mapping from (role, approved, year) to an outcome lives here and nowhere
// else; middleware and the session endpoint both consume it so every page
// routes the same way.
type GateOutcome string

const (
	// GateSignIn: no authenticated user, go to the sign-in entry point.
	GateSignIn GateOutcome = "sign_in"
	// GateOnboarding: student without an enrollment year, year selection
	// comes before any other student view.
	GateOnboarding GateOutcome = "onboarding"
	// GatePending: student with a year but not yet approved by an admin.
	// Read-only pending view, logout only.
	GatePending GateOutcome = "pending_approval"
	// GateStudent: approved student with a year, full student area.
	GateStudent GateOutcome = "student"
	// GateAdmin: admin, full admin area. Approval and year are irrelevant.
	GateAdmin GateOutcome = "admin"
)

// EvaluateGate decides the outcome for a resolved user. Total and
// deterministic: every (role, approved, year) combination maps to exactly
// one outcome.
func EvaluateGate(u *User) GateOutcome {
	if u == nil {
		return GateSignIn
	}
	if u.Role == Admin {
		return GateAdmin
	}
	if !u.YearSet() {
		return GateOnboarding
	}
	if !u.Approved {
		return GatePending
	}
	return GateStudent
}

// Allows reports whether a gate outcome grants access to an area. The
// student area admits admins as well.
func (g GateOutcome) Allows(area GateOutcome) bool {
	if g == GateAdmin {
		return true
	}
	return g == area
}
