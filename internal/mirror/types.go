package mirror

import (
	"errors"

	"github.com/five82/roster/internal/roster"
)

var (
	// ErrLocked means the access gate has not been unlocked this session.
	ErrLocked = errors.New("access code required")
	// ErrInvalidRecord rejects a record the sheet could not hold, such as one
	// without a name.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrUnknownRecord means the id is not in the working set.
	ErrUnknownRecord = errors.New("record not found")
	// ErrWriteFailure wraps any failure of the remote write.
	ErrWriteFailure = errors.New("remote write failed")
)

// Action is a mutation kind understood by the remote endpoint.
type Action string

const (
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionAdd, ActionEdit, ActionDelete:
		return true
	}
	return false
}

func (a Action) pastTense() string {
	switch a {
	case ActionAdd:
		return "added to"
	case ActionEdit:
		return "updated in"
	case ActionDelete:
		return "deleted from"
	}
	return "written to"
}

// Outcome classifies the result of Apply.
type Outcome int

const (
	// Success: the working set changed and the remote write succeeded.
	Success Outcome = iota
	// PartialSuccess: the working set changed but the remote write did not.
	PartialSuccess
	// Failed: nothing was written anywhere the user can see.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case PartialSuccess:
		return "partial"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Request is the JSON body sent to the write endpoint.
type Request struct {
	Action        Action           `json:"action"`
	Data          roster.WriteData `json:"data"`
	SpreadsheetID string           `json:"spreadsheetId"`
}

// Response is the JSON body the write endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Result reports what Apply did.
type Result struct {
	Outcome  Outcome
	Action   Action
	Record   roster.Record // the record as stored locally (or removed, for delete)
	IntentID string
	Message  string // remote confirmation on success
	Err      error
}
