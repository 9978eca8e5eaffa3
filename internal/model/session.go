package model

// Availability is the client's view of whether the typed name may play
type Availability string

const (
	AvailabilityUnknown              Availability = "unknown"               // Nothing typed or checked yet
	AvailabilityChecking             Availability = "checking"              // A check is pending or in flight
	AvailabilityAvailable            Availability = "available"             // Name is free
	AvailabilityAuthenticatedOK      Availability = "authenticated"         // Name exists and password matches
	AvailabilityAuthenticationFailed Availability = "authentication_failed" // Name exists, password wrong
	AvailabilityNameTaken            Availability = "name_taken"            // Someone claimed the name meanwhile
	AvailabilityError                Availability = "error"                 // The server could not be reached
	AvailabilityInvalid              Availability = "invalid"               // The server refused the name or password
)

// CanStart reports whether a game may be started in this state
func (a Availability) CanStart() bool {
	return a == AvailabilityAvailable || a == AvailabilityAuthenticatedOK
}

// AvailabilityFromCheck maps a server check result to a client state
func AvailabilityFromCheck(r CheckResult) Availability {
	switch r {
	case CheckAvailable:
		return AvailabilityAvailable
	case CheckAuthenticated:
		return AvailabilityAuthenticatedOK
	default:
		return AvailabilityAuthenticationFailed
	}
}

// SessionState is a snapshot of the login and leaderboard state shown to
// the player
type SessionState struct {
	Name         string             `json:"name"`
	Password     string             `json:"-"`
	Availability Availability       `json:"availability"`
	Epoch        uint64             `json:"epoch"`
	Message      string             `json:"message,omitempty"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard,omitempty"`
	// LastSubmitted is the stored record after the latest game over
	LastSubmitted *LeaderboardEntry `json:"last_submitted,omitempty"`
}

// Clone returns a deep copy safe to hand to other goroutines
func (s SessionState) Clone() SessionState {
	out := s
	if s.Leaderboard != nil {
		out.Leaderboard = make([]LeaderboardEntry, len(s.Leaderboard))
		copy(out.Leaderboard, s.Leaderboard)
	}
	if s.LastSubmitted != nil {
		e := *s.LastSubmitted
		out.LastSubmitted = &e
	}
	return out
}
