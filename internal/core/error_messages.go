package core

// error_messages.go maps engine errors to user-facing messages with codes
// for support reference.
//
//	DELIM001 - Invalid delimiter: the delimiter is not a single ASCII character
//	COL001   - Invalid column: the column index is not a positive integer
//	COL002   - Missing column: a line has fewer fields than the column index
//	VAL001   - Invalid value: the column holds something other than a non-negative integer
//	VAL002   - Sum overflow: a group's sum exceeds the supported range
//	FILE001  - Cannot open input
//	FILE002  - Input too large
//	RUN001   - Too many concurrent runs
//	RUN002   - Run cancelled
//	RUN003   - Run timed out
//	QRY001   - Invalid query parameter
//	ERR000   - Fallback when nothing matches
//
// Sentinel errors are matched with errors.Is first, then string patterns
// (case-insensitive strings.Contains) for errors that come from outside
// the engine. The first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern matches an error either by sentinel or by substring.
type errorPattern struct {
	target  error
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		target: ErrInvalidDelimiter,
		msg: UserMessage{
			Message: "Delimiter must be a single ASCII character",
			Action:  `Use one character such as "," or "|", or \t for tab`,
			Code:    "DELIM001",
		},
	},
	{
		target: ErrInvalidColumnIndex,
		msg: UserMessage{
			Message: "Column index must be a positive integer",
			Action:  "Columns are numbered from 1, like awk",
			Code:    "COL001",
		},
	},
	{
		target: ErrMissingColumn,
		msg: UserMessage{
			Message: "A line has fewer fields than the value column",
			Action:  "Check the delimiter and the column index against the input",
			Code:    "COL002",
		},
	},
	{
		target: ErrInvalidValue,
		msg: UserMessage{
			Message: "The value column holds a value that is not a non-negative integer",
			Action:  "Fix the line named in the error or choose another column",
			Code:    "VAL001",
		},
	},
	{
		target: ErrSumOverflow,
		msg: UserMessage{
			Message: "A group's sum is too large",
			Action:  "Split the input and aggregate the parts separately",
			Code:    "VAL002",
		},
	},
	{
		target: ErrStreamOpen,
		msg: UserMessage{
			Message: "The input could not be opened",
			Action:  "Check the file path and permissions",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Input exceeds the maximum size limit",
			Action:  "Split the input into smaller chunks",
			Code:    "FILE002",
		},
	},
	{
		target: ErrTooManyRuns,
		msg: UserMessage{
			Message: "System is busy processing other inputs",
			Action:  "Please wait a moment and try again",
			Code:    "RUN001",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "RUN002",
		},
	},
	{
		target: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller input or try again later",
			Code:    "RUN003",
		},
	},
	{
		pattern: "invalid boolean for",
		msg: UserMessage{
			Message: "A query parameter has an invalid value",
			Action:  "Use true or false for sorted, sum_first and has_headers",
			Code:    "QRY001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if ep.target != nil && errors.Is(err, ep.target) {
			return ep.msg
		}
		if ep.pattern != "" && strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError returns "Message (Code: X). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific (non-fallback) message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
