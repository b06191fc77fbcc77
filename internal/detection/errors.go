package detection

import "errors"

var (
	// ErrNotFound indicates a missing alert or recommendation.
	ErrNotFound = errors.New("not found")
	// ErrDataUnavailable indicates the context snapshot could not be loaded at all.
	ErrDataUnavailable = errors.New("detection context unavailable")
	// ErrPassInFlight indicates a trigger arrived while a pass was already running.
	ErrPassInFlight = errors.New("detection pass already in flight")
	// ErrInvalidStatus indicates an alert status outside the lifecycle states.
	ErrInvalidStatus = errors.New("invalid alert status")
)

const (
	ErrorCodeAIBackend   = "AI_BACKEND_ERROR"
	ErrorCodeAIParse     = "AI_PARSE_ERROR"
	ErrorCodePersistence = "PERSISTENCE_ERROR"
)
