package state

import "errors"

// Error categories returned by engine transitions. Every error is wrapped
// around one of these so callers can classify it with errors.Is.
var (
	// ErrStructural reports a bad player count or a missing player or card.
	ErrStructural = errors.New("structural error")
	// ErrTiming reports an action taken without priority, in the wrong
	// phase, or with a non-empty stack at sorcery speed.
	ErrTiming = errors.New("timing error")
	// ErrRuleViolation reports an action that breaks a game rule.
	ErrRuleViolation = errors.New("rule violation")
	// ErrTerminal reports an action on a completed game.
	ErrTerminal = errors.New("game is over")
	// ErrUnsupported reports an action kind the engine declares but does
	// not implement.
	ErrUnsupported = errors.New("unsupported action")
)
