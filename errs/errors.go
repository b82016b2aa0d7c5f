package errs

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrMissingCredential means the provider API key is absent or was rejected.
	ErrMissingCredential = stderrors.New("RUNPOD_API_KEY environment variable not set")
	// ErrToolNotFound means the remote execution binary is not installed.
	ErrToolNotFound = stderrors.New("'ssh' command not found. Is it installed and in your PATH?")
)

// ProviderError is a failed call to the cloud provider API
type ProviderError struct {
	Op          string
	StatusCode  int
	Message     string
	OriginalErr error
}

func (e *ProviderError) Error() string {
	msg := e.Op + ": " + e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: (status %d) %s", e.Op, e.StatusCode, e.Message)
	}
	if e.OriginalErr != nil {
		msg += ": " + e.OriginalErr.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrMissingCredential
	}
	return e.OriginalErr
}

func NewProviderError(op string, statusCode int, message string, originalErr error) *ProviderError {
	return &ProviderError{
		Op:          op,
		StatusCode:  statusCode,
		Message:     message,
		OriginalErr: originalErr,
	}
}

func IsProviderError(err error) (*ProviderError, bool) {
	if err == nil {
		return nil, false
	}
	var providerErr *ProviderError
	if stderrors.As(errors.Cause(err), &providerErr) {
		return providerErr, true
	}
	return nil, false
}

// PodOperationError is a stop or delete call that failed for a single pod
type PodOperationError struct {
	Op      string
	PodID   string
	PodName string
	Err     error
}

func (e *PodOperationError) Error() string {
	return fmt.Sprintf("%s pod %s (ID: %s): %v", e.Op, e.PodName, e.PodID, e.Err)
}

func (e *PodOperationError) Unwrap() error {
	return e.Err
}

func NewPodOperationError(op, podID, podName string, err error) *PodOperationError {
	return &PodOperationError{Op: op, PodID: podID, PodName: podName, Err: err}
}

// IsFatal reports whether err must terminate the whole run instead of being
// handled per pod or per host.
func IsFatal(err error) bool {
	return stderrors.Is(err, ErrMissingCredential) || stderrors.Is(err, ErrToolNotFound)
}
