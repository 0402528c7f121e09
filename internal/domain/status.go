package domain

import "strings"

// Status is a purchase-order lifecycle state. The server is authoritative;
// the transition table here only drives which targets the console offers.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusPending   Status = "PENDING"
	StatusReceived  Status = "RECEIVED"
	StatusCancelled Status = "CANCELLED"
)

var statusLabels = map[Status]string{
	StatusDraft:     "Draft",
	StatusSent:      "Sent",
	StatusPending:   "Pending",
	StatusReceived:  "Received",
	StatusCancelled: "Cancelled",
}

var statusAliases = map[string]Status{
	"draft":     StatusDraft,
	"sent":      StatusSent,
	"submitted": StatusSent,
	"pending":   StatusPending,
	"received":  StatusReceived,
	"cancelled": StatusCancelled,
	"canceled":  StatusCancelled,
}

// transitions holds the structural edges. RECEIVED and CANCELLED are
// terminal; CANCELLED is reachable from every non-terminal state.
var transitions = map[Status][]Status{
	StatusDraft:   {StatusSent, StatusCancelled},
	StatusSent:    {StatusPending, StatusCancelled},
	StatusPending: {StatusReceived, StatusCancelled},
}

// ParseStatus returns the status for a given label (case-insensitive).
// SUBMITTED is accepted as an alias for SENT.
func ParseStatus(label string) (Status, bool) {
	s, ok := statusAliases[strings.ToLower(strings.TrimSpace(label))]
	return s, ok
}

// Label returns a human-readable label for a status.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal reports whether no further transitions leave s.
func (s Status) Terminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// CanTransitionTo reports whether the edge s -> target is structurally
// sensible. A true result is not a guarantee the server will accept it.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// NextStatuses lists the targets the console should offer from s. Empty for
// terminal states.
func (s Status) NextStatuses() []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}
