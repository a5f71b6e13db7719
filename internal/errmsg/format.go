// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackStop  Op = "stop playback"
	OpPlaybackSeek  Op = "seek"
	OpPlaybackSkip  Op = "skip track"

	// Queue operations
	OpQueueLoad Op = "load queue"
	OpQueueAdd  Op = "add to queue"

	// Rating
	OpRatingSave Op = "save rating"

	// Session surfaces
	OpSessionStart Op = "start media session"
	OpNotifySend   Op = "send notification"

	// Resume state
	OpResumeLoad Op = "load resume state"
	OpResumeSave Op = "save resume state"

	// Initialization
	OpInitialize Op = "initialize player"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
