package audit

import "time"

// Op identifies the kind of authorization state change being recorded.
type Op string

const (
	OpGrantRole        Op = "grant_role"
	OpRevokeRole       Op = "revoke_role"
	OpGrantPermission  Op = "grant_permission"
	OpRevokePermission Op = "revoke_permission"
	OpClear            Op = "clear"
)

// Event is a single recorded authorization change.
type Event struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor,omitempty"`
	Op        Op        `json:"op"`
	Relation  string    `json:"relation,omitempty"`
	Rule      []string  `json:"rule,omitempty"`
	Changed   bool      `json:"changed"`
	CreatedAt time.Time `json:"created_at"`
}
