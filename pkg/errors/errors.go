package errors

import "fmt"

// Error codes
const (
	CodeAPIError       = "API_ERROR"
	CodeParseError     = "PARSE_ERROR"
	CodeNormalization  = "NORMALIZATION_ERROR"
	CodeCache          = "CACHE_ERROR"
	CodeArchive        = "ARCHIVE_ERROR"
	CodePipelineFailed = "PIPELINE_FAILED"
)

type PipelineError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func New(message, code string, context map[string]any) *PipelineError {
	return &PipelineError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *PipelineError) WithCause(cause error) *PipelineError {
	e.Cause = cause
	return e
}

func NewAPIError(message, model string, cause error) *PipelineError {
	return &PipelineError{
		Message: message,
		Code:    CodeAPIError,
		Context: map[string]any{"model": model},
		Cause:   cause,
	}
}

func NewParseError(message, model string) *PipelineError {
	return &PipelineError{
		Message: message,
		Code:    CodeParseError,
		Context: map[string]any{"model": model},
	}
}

func NewCacheError(message, op, key string, cause error) *PipelineError {
	return &PipelineError{
		Message: message,
		Code:    CodeCache,
		Context: map[string]any{"op": op, "key": key},
		Cause:   cause,
	}
}

func NewArchiveError(message string, cause error) *PipelineError {
	return &PipelineError{
		Message: message,
		Code:    CodeArchive,
		Cause:   cause,
	}
}
