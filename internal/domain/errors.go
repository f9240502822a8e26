package domain

import "github.com/pkg/errors"

var (
	// Session store
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrIndexOutOfRange      = errors.New("conversation index out of range")
	ErrInvalidFeedback      = errors.New("invalid feedback value")
	ErrFeedbackNotAllowed   = errors.New("feedback is only recorded on assistant messages")
	ErrUnknownView          = errors.New("unknown view")
	ErrReplyPending         = errors.New("a reply is already pending")
	ErrEmptyMessage         = errors.New("message text is required")

	// Note store
	ErrEmptyNote = errors.New("note content is required")

	// Completion gateway
	ErrCompletionUnavailable = errors.New("completion unavailable")

	// Image statistics
	ErrAnalysisFailed    = errors.New("analysis failed")
	ErrImageTooLarge     = errors.New("image too large")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrNoAnalysis        = errors.New("no analysis available")
)
