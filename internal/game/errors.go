package game

import "fmt"

// IllegalActionError rejects an action that is not in the legal set for the
// current player and state: wrong turn, wrong status, insufficient funds, or
// the raise cap. Callers recover by picking a fallback from the legal set and
// resubmitting; the returned state is always the unchanged input.
type IllegalActionError struct {
	PlayerID string
	Action   ActionType
	Reason   string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %s by %s: %s", e.Action, e.PlayerID, e.Reason)
}

func illegalAction(playerID string, action ActionType, format string, args ...any) error {
	return &IllegalActionError{
		PlayerID: playerID,
		Action:   action,
		Reason:   fmt.Sprintf(format, args...),
	}
}

// MalformedConfigError rejects an invalid game configuration before any hand
// starts: fewer than 2 players, invalid blind or stack values.
type MalformedConfigError struct {
	Reason string
}

func (e *MalformedConfigError) Error() string {
	return "malformed config: " + e.Reason
}

func malformedConfig(format string, args ...any) error {
	return &MalformedConfigError{Reason: fmt.Sprintf(format, args...)}
}
