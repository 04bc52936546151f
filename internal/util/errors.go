package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrChallengeNotFound    = errors.New("challenge not found")
	ErrSessionNotStarted    = errors.New("challenge session not started")
	ErrSessionCompleted     = errors.New("challenge session already completed")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message is empty")
	ErrScoreOutOfRange      = errors.New("score must be between 0 and 100")
)
