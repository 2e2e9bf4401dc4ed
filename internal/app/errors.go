package app

import "errors"

var (
	// ErrEmptyMessage indicates a whitespace-only advisor message.
	ErrEmptyMessage = errors.New("message required")
	// ErrNotImage indicates a damage photo upload with a non-image media type.
	ErrNotImage = errors.New("damage photo must be an image")
	// ErrAnalysisInProgress indicates a second submission while a scan is running.
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	// ErrNoReport indicates a confirm outside the results phase.
	ErrNoReport = errors.New("no analysis result to confirm")
	// ErrDocumentNotFound indicates an unknown vault document id.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrUnknownLanguage indicates a language code outside the supported set.
	ErrUnknownLanguage = errors.New("unsupported language")
	// ErrNoObjectStore indicates a download request with byte retention disabled.
	ErrNoObjectStore = errors.New("file retention not configured")
)
