// Error codes reference
//
// Errors shown to users carry a short code that can be quoted when asking
// for help. Typed errors are mapped first; anything else is matched by
// message pattern, case-insensitively, first match wins.
//
// # Validation (VAL001-VAL099)
//
//	VAL001 - A column specification is invalid (schema.ValidationError)
//	VAL002 - The row count or seed is not a usable number
//	VAL003 - A column type is not supported (schema.TypeMismatchError)
//	VAL004 - The schema document is empty
//	VAL005 - The schema document contains an unknown field
//	VAL006 - The schema document is not valid JSON or YAML
//	VAL007 - The request body could not be read or is too large
//
// # Generation (GEN001-GEN099)
//
//	GEN001 - Too many rows requested (LimitError, rows)
//	GEN002 - Too many columns requested (LimitError, columns)
//	GEN003 - Every generation slot is busy (ErrTooManyGenerations)
//	GEN004 - The request was cancelled
//	GEN005 - The request timed out
//	GEN006 - A string column is longer than allowed (LimitError, length)
//
// # Rate limiting (RATE001)
//
//	RATE001 - Too many requests from this client
//
// # Default (ERR000)
//
//	ERR000 - Anything else; the technical error is in the logs
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/synthdata/internal/schema"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgTooManyRows = UserMessage{
		Message: "Too many rows requested",
		Action:  "Lower the number of rows",
		Code:    "GEN001",
	}
	msgTooManyColumns = UserMessage{
		Message: "Too many columns requested",
		Action:  "Remove some columns",
		Code:    "GEN002",
	}
	msgStringTooLong = UserMessage{
		Message: "String columns are too long",
		Action:  "Lower the string length",
		Code:    "GEN006",
	}
	msgBusy = UserMessage{
		Message: "The generator is busy with other requests",
		Action:  "Please wait a moment and try again",
		Code:    "GEN003",
	}
)

// errorPatterns catches errors that arrive untyped, e.g. from decoders.
var errorPatterns = []errorPattern{
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The request is too large",
			Action:  "Send a smaller schema document",
			Code:    "VAL007",
		},
	},
	{
		pattern: "empty document",
		msg: UserMessage{
			Message: "The schema document is empty",
			Action:  "Provide rows and at least one column",
			Code:    "VAL004",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "The schema document contains an unknown field",
			Action:  "Use only rows, seed and columns (name, type, min, max, length, categories)",
			Code:    "VAL005",
		},
	},
	{
		pattern: "decode schema",
		msg: UserMessage{
			Message: "The schema document could not be read",
			Action:  "Check that the document is valid JSON or YAML",
			Code:    "VAL006",
		},
	},
	{
		pattern: "bad request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the submitted form or document and try again",
			Code:    "VAL007",
		},
	},
	{
		pattern: "too many generations",
		msg:     msgBusy,
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "GEN004",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try fewer rows or try again later",
			Code:    "GEN005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-facing message. Schema errors keep
// their own text so the user can see which column to fix.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve schema.ValidationError
	if errors.As(err, &ve) {
		if ve.Field == "rows" || ve.Field == "seed" {
			return UserMessage{
				Message: upperFirst(ve.Message),
				Action:  "Enter a positive whole number",
				Code:    "VAL002",
			}
		}
		return UserMessage{
			Message: strings.TrimPrefix(ve.Error(), "invalid schema: "),
			Action:  "Correct the column and try again",
			Code:    "VAL001",
		}
	}

	var tm schema.TypeMismatchError
	if errors.As(err, &tm) {
		return UserMessage{
			Message: tm.Error(),
			Action:  "Choose one of: " + strings.Join(kindNames(), ", "),
			Code:    "VAL003",
		}
	}

	var le *LimitError
	if errors.As(err, &le) {
		msg := msgTooManyRows
		switch le.Field {
		case LimitColumns:
			msg = msgTooManyColumns
		case LimitLength:
			msg = msgStringTooLong
		}
		msg.Message = le.Error()
		msg.Action = fmt.Sprintf("%s (maximum %d)", msg.Action, le.Max)
		return msg
	}

	if errors.Is(err, ErrTooManyGenerations) {
		return msgBusy
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func kindNames() []string {
	kinds := schema.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k.Kind)
	}
	return names
}

// FormatUserError renders an error as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
