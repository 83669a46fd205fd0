package game

import "errors"

// Engine errors. The transport layers map these onto websocket error events
// and HTTP status codes; nothing here ever terminates a connection loop.
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrGameFull         = errors.New("game is full")
	ErrGameCompleted    = errors.New("game is completed")
	ErrInvalidState     = errors.New("operation not allowed in current game state")
	ErrNoActiveQuestion = errors.New("no active question")
	ErrAlreadyAnswered  = errors.New("answer already submitted")
	ErrInvalidAnswer    = errors.New("invalid answer option")
	ErrInvalidToken     = errors.New("invalid token")
	ErrNotHost          = errors.New("not authorized for this game")
	ErrPinExhausted     = errors.New("could not allocate a unique game pin")
)

// IsNotFound reports whether err is one of the lookup failures.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGameNotFound) || errors.Is(err, ErrPlayerNotFound)
}

// IsAuth reports whether err is an authorization failure.
func IsAuth(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrNotHost)
}
