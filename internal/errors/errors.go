package errors

import "errors"

// This package defines the sentinel errors shared by every layer of the bot.
// Lower layers wrap these with fmt.Errorf("...: %w", ...) and callers branch
// on them with errors.Is, so the dispatcher and the admin API never depend on
// driver or transport specific error types.

var (
	// ErrConfig signifies a missing or invalid setting at startup. It is fatal.
	ErrConfig = errors.New("configuration error")

	// ErrGeneration signifies that the generation backend failed, timed out or
	// rejected the request (safety filter, network, malformed response).
	// It is recovered by the dispatcher and shown to the user as a fixed notice.
	ErrGeneration = errors.New("generation failed")

	// ErrInvalidContext signifies that a command was used outside the chat type
	// it is restricted to (e.g. /switch in a group).
	ErrInvalidContext = errors.New("command not allowed in this context")

	// ErrTransport signifies a failure to send, edit or fetch through the
	// messaging transport. It is best-effort and only logged.
	ErrTransport = errors.New("transport error")

	// ErrNotFound signifies that a requested resource could not be located.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data failed validation.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable signifies that a component is shutting down or saturated.
	ErrUnavailable = errors.New("service unavailable")

	// ErrInternal signifies an unexpected error. It is a generic error used to
	// prevent leaking implementation details to API clients.
	ErrInternal = errors.New("internal server error")
)
