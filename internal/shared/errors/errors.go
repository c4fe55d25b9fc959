// Package errors holds shared sentinel errors surfaced across modules.
package errors

import "errors"

var (
	ErrMissingBotToken = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")
	ErrUnauthorized    = errors.New("unauthorized user")
)
