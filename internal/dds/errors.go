package dds

import (
	"errors"
	"fmt"
)

// ReturnCode mirrors the standard DDS return codes so failures can be
// reported the way the vendor examples do: operation name plus code.
type ReturnCode int

const (
	RetcodeOK                 ReturnCode = 0
	RetcodeError              ReturnCode = 1
	RetcodeUnsupported        ReturnCode = 2
	RetcodeBadParameter       ReturnCode = 3
	RetcodePreconditionNotMet ReturnCode = 4
	RetcodeOutOfResources     ReturnCode = 5
	RetcodeNotEnabled         ReturnCode = 6
	RetcodeAlreadyDeleted     ReturnCode = 9
	RetcodeTimeout            ReturnCode = 10
	RetcodeNoData             ReturnCode = 11
)

func (c ReturnCode) String() string {
	switch c {
	case RetcodeOK:
		return "OK"
	case RetcodeError:
		return "ERROR"
	case RetcodeUnsupported:
		return "UNSUPPORTED"
	case RetcodeBadParameter:
		return "BAD_PARAMETER"
	case RetcodePreconditionNotMet:
		return "PRECONDITION_NOT_MET"
	case RetcodeOutOfResources:
		return "OUT_OF_RESOURCES"
	case RetcodeNotEnabled:
		return "NOT_ENABLED"
	case RetcodeAlreadyDeleted:
		return "ALREADY_DELETED"
	case RetcodeTimeout:
		return "TIMEOUT"
	case RetcodeNoData:
		return "NO_DATA"
	default:
		return fmt.Sprintf("RETCODE(%d)", int(c))
	}
}

// Error lets a bare code be matched with errors.Is.
func (c ReturnCode) Error() string { return c.String() }

var (
	// ErrTimeout is returned by WaitSet.Wait when no condition triggered in time.
	ErrTimeout error = RetcodeTimeout
	// ErrNoData is returned by DataReader.Take when the queue is empty.
	ErrNoData error = RetcodeNoData

	ErrTypeNotRegistered  = errors.New("type not registered with participant")
	ErrTopicTypeMismatch  = errors.New("topic already exists with a different type")
	ErrEntityDeleted      = errors.New("entity already deleted")
	ErrEntitiesRemaining  = errors.New("participant still has contained entities")
	ErrParticipantsRemain = errors.New("factory still has live participants")
	ErrForeignEntity      = errors.New("entity was not created by this parent")
)

// Error is the failure of a single middleware operation.
type Error struct {
	Op   string
	Code ReturnCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.Err}
}

func opError(op string, code ReturnCode, err error) error {
	return &Error{Op: op, Code: code, Err: err}
}

// CodeOf extracts the return code carried by err. A nil error is RetcodeOK and
// an error from outside this package is RetcodeError.
func CodeOf(err error) ReturnCode {
	if err == nil {
		return RetcodeOK
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	var rc ReturnCode
	if errors.As(err, &rc) {
		return rc
	}
	return RetcodeError
}

// OpOf returns the name of the failed operation, or "" when err does not
// come from this package.
func OpOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Op
	}
	return ""
}
