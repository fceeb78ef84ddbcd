package entities

import "time"

// AuditEventKind enumerates the actions recorded in the audit trail.
type AuditEventKind string

const (
	AuditEventSent      AuditEventKind = "SENT"
	AuditEventViewed    AuditEventKind = "VIEWED"
	AuditEventSigned    AuditEventKind = "SIGNED"
	AuditEventApproved  AuditEventKind = "APPROVED"
	AuditEventCancelled AuditEventKind = "CANCELLED"
	AuditEventReminded  AuditEventKind = "REMINDED"
)

// AuditEventState only leaves "committed" under the compensating commit
// protocol, where an event is written as pending before the state change.
type AuditEventState string

const (
	AuditEventStateCommitted  AuditEventState = "committed"
	AuditEventStatePending    AuditEventState = "pending"
	AuditEventStateRolledBack AuditEventState = "rolled_back"
)

type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeClient ActorType = "client"
	ActorTypeSystem ActorType = "system"
)

// Actor identifies who triggered an action.
type Actor struct {
	Type      ActorType `json:"type"`
	UserID    string    `json:"user_id,omitempty"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

func UserActor(userID string) Actor {
	return Actor{Type: ActorTypeUser, UserID: userID}
}

func ClientActor(ip, userAgent string) Actor {
	return Actor{Type: ActorTypeClient, IP: ip, UserAgent: userAgent}
}

func SystemActor() Actor {
	return Actor{Type: ActorTypeSystem, UserID: "system"}
}

// AuditEvent is an append-only record of a transition or signature action.
//
// Storage model:
//   - PK: proposal_id
//   - SK: timestamp#id (ascending history)
type AuditEvent struct {
	ID         string          `json:"id"`
	ProposalID string          `json:"proposal_id"`
	Kind       AuditEventKind  `json:"kind"`
	Actor      Actor           `json:"actor"`
	FromStatus ProposalStatus  `json:"from_status,omitempty"`
	ToStatus   ProposalStatus  `json:"to_status,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Detail     map[string]any  `json:"detail,omitempty"`
	State      AuditEventState `json:"state"`
}
