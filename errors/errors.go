package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrUnreachable     = fmt.Errorf("api unreachable")
	ErrUnauthorized    = fmt.Errorf("unauthorized")
	ErrBadResponse     = fmt.Errorf("bad response")
	ErrTransferFailed  = fmt.Errorf("transfer failed")
	ErrQueueRunning    = fmt.Errorf("upload queue is already running")
	ErrTaskStarted     = fmt.Errorf("upload task already started")
	ErrIndexOutOfRange = fmt.Errorf("index out of range")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
)

// TransferError is returned by a transport when one file could not be sent.
// It matches ErrTransferFailed and its cause with errors.Is.
type TransferError struct {
	Message string
	Cause   error
}

func NewTransferError(message string, cause error) *TransferError {
	return &TransferError{Message: message, Cause: cause}
}

func (e *TransferError) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", ErrTransferFailed, e.Message, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", ErrTransferFailed, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", ErrTransferFailed, e.Cause)
	default:
		return ErrTransferFailed.Error()
	}
}

func (e *TransferError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrTransferFailed}
	}
	return []error{ErrTransferFailed, e.Cause}
}

// Message extracts the user facing text of an error: the transfer message when
// there is one, the error string otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var te *TransferError
	if stderrors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	return err.Error()
}
