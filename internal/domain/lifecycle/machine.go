// Package lifecycle holds the proposal state machine: the transition table and
// the guards each transition must pass. It performs no I/O.
package lifecycle

import "propostas_service/internal/domain/entities"

type Action string

const (
	ActionSend    Action = "send"
	ActionSign    Action = "sign"
	ActionApprove Action = "approve"
	ActionCancel  Action = "cancel"

	// Token maintenance on an ENVIADA proposal; not status transitions.
	ActionRenewToken  Action = "renew_token"
	ActionRevokeToken Action = "revoke_token"
)

// Actions lists every lifecycle action.
func Actions() []Action {
	return []Action{ActionSend, ActionSign, ActionApprove, ActionCancel}
}

var transitions = map[entities.ProposalStatus]map[Action]entities.ProposalStatus{
	entities.ProposalStatusRascunho: {
		ActionSend:   entities.ProposalStatusEnviada,
		ActionCancel: entities.ProposalStatusCancelada,
	},
	entities.ProposalStatusEnviada: {
		ActionSign:   entities.ProposalStatusAssinada,
		ActionCancel: entities.ProposalStatusCancelada,
	},
	entities.ProposalStatusAssinada: {
		ActionApprove: entities.ProposalStatusAprovada,
	},
}

// Requested is the state an action aims for, used to name it in errors.
func Requested(action Action) entities.ProposalStatus {
	switch action {
	case ActionSend:
		return entities.ProposalStatusEnviada
	case ActionSign:
		return entities.ProposalStatusAssinada
	case ActionApprove:
		return entities.ProposalStatusAprovada
	case ActionCancel:
		return entities.ProposalStatusCancelada
	case ActionRenewToken, ActionRevokeToken:
		return entities.ProposalStatusEnviada
	}
	return ""
}

// Next returns the state reached by applying action to from, or a
// *TransitionError when the edge does not exist.
func Next(from entities.ProposalStatus, action Action) (entities.ProposalStatus, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	return "", &TransitionError{From: from, Requested: Requested(action), Action: action}
}

// Allowed reports whether action is legal from the given state.
func Allowed(from entities.ProposalStatus, action Action) bool {
	_, ok := transitions[from][action]
	return ok
}

// Reachable reports whether to can be reached from from in zero or more
// transitions.
func Reachable(from, to entities.ProposalStatus) bool {
	seen := map[entities.ProposalStatus]bool{from: true}
	queue := []entities.ProposalStatus{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		for _, next := range transitions[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
