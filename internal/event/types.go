package event

import "github.com/utkarshverma439/SiteCraft-AI/pkg/types"

// EventType represents the type of event.
type EventType string

const (
	// SessionLogin fires after a successful login, register or restore.
	SessionLogin EventType = "session.login"
	// SessionLogout fires after an explicit logout.
	SessionLogout EventType = "session.logout"
	// SessionCleared fires whenever the session is dropped, for any reason.
	SessionCleared EventType = "session.cleared"
	// SessionUnauthorized is the "navigate to login" signal. It fires once
	// per invalidated session.
	SessionUnauthorized EventType = "session.unauthorized"

	ProjectCreated EventType = "project.created"
	ProjectUpdated EventType = "project.updated"
	ProjectDeleted EventType = "project.deleted"

	GenerationStarted   EventType = "generation.started"
	GenerationCompleted EventType = "generation.completed"
	GenerationFailed    EventType = "generation.failed"
)

// SessionData is the data for session.login events.
type SessionData struct {
	User  *types.User `json:"user"`
	Epoch uint64      `json:"epoch"`
}

// SessionClearedData is the data for session.logout, session.cleared and
// session.unauthorized events.
type SessionClearedData struct {
	Epoch  uint64 `json:"epoch"`
	Reason string `json:"reason"`
}

// ProjectData is the data for project.created and project.updated events.
type ProjectData struct {
	Project *types.Project `json:"project"`
}

// ProjectDeletedData is the data for project.deleted events.
type ProjectDeletedData struct {
	ProjectID int64 `json:"projectID"`
}

// GenerationData is the data for generation.* events.
type GenerationData struct {
	Request types.GenerationRequest `json:"request"`
	Project *types.Project          `json:"project,omitempty"`
	Error   string                  `json:"error,omitempty"`
}
