package faults

import (
	"golang.org/x/xerrors"
)

// Fault is the rendered form of a failure. Its body always has exactly one root key,
// the fault name, holding the numeric code and the message.
type Fault struct {
	Name    string
	Code    int
	Message string
}

// NewFault builds a fault of the class. The detail message is preferred; the class
// explanation is used when it is empty.
func NewFault(class *StatusClass, detail string) *Fault {
	message := detail
	if message == "" {
		message = class.explanation
	}
	return &Fault{
		Name:    class.FaultName(),
		Code:    class.code,
		Message: message,
	}
}

// Body returns the normalized body of the fault:
//
//	{"itemNotFound": {"code": 404, "message": "..."}}
func (fault *Fault) Body() map[string]interface{} {
	return map[string]interface{}{
		fault.Name: map[string]interface{}{
			"code":    fault.Code,
			"message": fault.Message,
		},
	}
}

// StatusTable declares which error kinds each status class reports. It is the
// declarative form of an ExceptionMap.
type StatusTable map[*StatusClass][]*Kind

// Merge returns a new table holding the kinds of both tables.
func (table StatusTable) Merge(other StatusTable) StatusTable {
	merged := make(StatusTable, len(table)+len(other))
	for _, source := range []StatusTable{table, other} {
		for class, kinds := range source {
			merged[class] = append(merged[class], kinds...)
		}
	}
	return merged
}

// ExceptionMap is the inverted form of a StatusTable, keyed by kind. It is immutable
// once built and safe for concurrent use.
type ExceptionMap struct {
	classes map[*Kind]*StatusClass
}

// NewExceptionMap flattens and inverts the table. A kind registered under two classes
// is an error.
func NewExceptionMap(table StatusTable) (*ExceptionMap, error) {
	classes := make(map[*Kind]*StatusClass)
	for class, kinds := range table {
		for _, kind := range kinds {
			if registered, ok := classes[kind]; ok && registered != class {
				return nil, xerrors.Errorf(
					"kind %s registered under both %s and %s",
					kind.name, registered.name, class.name,
				)
			}
			classes[kind] = class
		}
	}
	return &ExceptionMap{classes: classes}, nil
}

// Len returns the number of registered kinds.
func (exceptionMap *ExceptionMap) Len() int {
	return len(exceptionMap.classes)
}

// ClassOf returns the class a kind is registered under, defaulting to HTTPBadRequest.
func (exceptionMap *ExceptionMap) ClassOf(kind *Kind) *StatusClass {
	if class, ok := exceptionMap.classes[kind]; ok {
		return class
	}
	return HTTPBadRequest
}

// Lookup returns the class an error is reported under. The first *Error in the chain
// decides; errors of unregistered kinds and errors carrying no kind at all are reported
// as HTTPBadRequest.
func (exceptionMap *ExceptionMap) Lookup(err error) *StatusClass {
	var kindErr *Error
	if xerrors.As(err, &kindErr) {
		return exceptionMap.ClassOf(kindErr.kind)
	}
	return HTTPBadRequest
}

// FaultFor builds the fault of an error. *HTTPError values keep their own class; kind
// errors are looked up, with their message as detail.
func (exceptionMap *ExceptionMap) FaultFor(err error) *Fault {
	var httpErr *HTTPError
	if xerrors.As(err, &httpErr) {
		return httpErr.Fault()
	}

	var kindErr *Error
	if xerrors.As(err, &kindErr) {
		return NewFault(exceptionMap.ClassOf(kindErr.kind), kindErr.Message)
	}

	return NewFault(HTTPBadRequest, err.Error())
}
