package faults

import (
	"fmt"
	"runtime/debug"

	uuid "github.com/satori/go.uuid"
	"golang.org/x/xerrors"
)

/*
Kind is used to define a kind of error that business logic can return. Each Kind of a
given API should have a unique name. The HTTP status an error of the Kind is reported
under is not part of the Kind: it is decided by the ExceptionMap of the controller that
returned it.

Since kinds are declared as pointers and compared by identity, the underlying fields of
this struct are private and accessed through functions. Define new kinds using NewKind().
*/
type Kind struct {
	// Unique human-readable name of the error kind.
	name string
}

// NewKind returns a new error kind. Each kind should only need to be declared once.
func NewKind(name string) *Kind {
	return &Kind{name: name}
}

// Unique human-readable name of the error kind.
func (kind *Kind) Name() string {
	return kind.name
}

// Allows the kind itself to also be a valid error for things like testing error
// equality with xerrors.Is.
func (kind *Kind) Error() string {
	return kind.name
}

// Returns a new error of this kind to be returned by business logic.
func (kind *Kind) New(message string, source error) *Error {
	return &Error{
		kind:        kind,
		Message:     message,
		ID:          uuid.NewV4(),
		sourceErr:   source,
		sourceStack: debug.Stack(),
		frame:       xerrors.Caller(1),
	}
}

// Newf is New with a formatted message and no source error.
func (kind *Kind) Newf(format string, args ...interface{}) *Error {
	err := kind.New(fmt.Sprintf(format, args...), nil)
	err.frame = xerrors.Caller(1)
	return err
}

/*
Creates a new error that is immediately passed to a panic. Expected to be recovered
by the Resource or the FaultWrapper. Allows errors to be raised from anywhere inside an
action without need to explicitly pass them up a chain of nested function returns.
*/
func (kind *Kind) Panic(message string, source error) {
	panic(kind.New(message, source))
}

// Error is a specific error instance.
type Error struct {
	// The kind of error we are returning.
	kind *Kind

	// A message detailing what caused the error. Reported to the client.
	Message string

	// An id for the error being returned.
	ID uuid.UUID

	// If this error was returned because of another error, the original error is stored
	// here.
	sourceErr error

	// The debug.Stack() from where this error was instantiated.
	sourceStack []byte

	// The xerrors.Frame from where this error was instantiated.
	frame xerrors.Frame
}

// Kind returns the kind of the error.
func (err *Error) Kind() *Kind {
	return err.kind
}

// IsKind returns true if the error is of the given kind.
func (err *Error) IsKind(kind *Kind) bool {
	return err.kind == kind
}

// Error string to conform to builtin error interface.
func (err *Error) Error() string {
	if err.Message == "" {
		return err.kind.name
	}
	return err.kind.name + " - " + err.Message
}

// Implements the xerrors.Wrapper interface.
func (err *Error) Unwrap() error {
	return err.sourceErr
}

// Is lets xerrors.Is(err, faults.NotFound) match on the kind.
func (err *Error) Is(target error) bool {
	kind, ok := target.(*Kind)
	return ok && kind == err.kind
}

// Format implements fmt.Formatter so that "%+v" prints the source frame.
func (err *Error) Format(state fmt.State, verb rune) {
	xerrors.FormatError(err, state, verb)
}

// FormatError implements xerrors.Formatter.
func (err *Error) FormatError(printer xerrors.Printer) error {
	printer.Print(err.Error())
	err.frame.Format(printer)
	return err.sourceErr
}

// More verbose error message that includes a debug.Stack() and source error
// information. This is not part of the Error() or Message by default since it may
// contain sensitive information that is not desirable to return to the client.
func (err *Error) LogMessage() string {
	return fmt.Sprint(
		"\nMESSAGE: ",
		err.Error(),
		"\nID: ",
		err.ID.String(),
		"\nORIGINAL: ",
		err.sourceErr,
		"\nPANIC STACK:\n",
		string(err.sourceStack),
	)
}

type headerSetter interface {
	Set(key string, value string)
}

// ErrorIDHeader carries the ID of the error behind a fault response, so clients can
// quote it and operators can find the matching log entry.
const ErrorIDHeader = "X-Error-Id"

// Writes the error ID to an object which implements a Set(key string, value string)
// method like http.Header.
func (err *Error) ToHeader(setter headerSetter) {
	setter.Set(ErrorIDHeader, err.ID.String())
}
