package faults

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StatusClass is an HTTP status class that failures are reported under, named after
// the webob exception classes ("HTTPNotFound") the API fault names derive from.
type StatusClass struct {
	name        string
	code        int
	explanation string
}

// NewStatusClass declares a status class. Classes are compared by identity, so each
// one should only need to be declared once.
func NewStatusClass(name string, code int, explanation string) *StatusClass {
	return &StatusClass{name: name, code: code, explanation: explanation}
}

// Class name, such as "HTTPNotFound".
func (class *StatusClass) Name() string {
	return class.name
}

// HTTP status code returned for the class.
func (class *StatusClass) Code() int {
	return class.code
}

// Generic explanation used when a fault has no detail message.
func (class *StatusClass) Explanation() string {
	return class.explanation
}

// Displays an API-specific fault name instead of the class name.
var namedFaults = map[string]string{
	"HTTPBadRequest":            "badRequest",
	"HTTPUnauthorized":          "unauthorized",
	"HTTPForbidden":             "forbidden",
	"HTTPNotFound":              "itemNotFound",
	"HTTPMethodNotAllowed":      "badMethod",
	"HTTPRequestEntityTooLarge": "overLimit",
	"HTTPUnsupportedMediaType":  "badMediaType",
	"HTTPInternalServerError":   "instanceFault",
	"HTTPNotImplemented":        "notImplemented",
	"HTTPServiceUnavailable":    "serviceUnavailable",
}

// FaultName returns the root key faults of this class are rendered under. Classes that
// have no fixed name at least get the "HTTP" prefix stripped and the first letter
// lower-cased: HTTPConflict is reported as "conflict".
func (class *StatusClass) FaultName() string {
	if name, ok := namedFaults[class.name]; ok {
		return name
	}

	name := class.name
	if index := strings.LastIndex(name, "HTTP"); index >= 0 {
		name = name[index+len("HTTP"):]
	}

	first, size := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(first)) + name[size:]
}

// New returns an HTTPError of this class. An empty detail falls back to the class
// explanation when rendered.
func (class *StatusClass) New(detail string) *HTTPError {
	return &HTTPError{Class: class, Detail: detail}
}

// HTTPError is a failure that already knows its status class. Business logic can return
// one directly to bypass the exception map.
type HTTPError struct {
	Class  *StatusClass
	Detail string
}

func (err *HTTPError) Error() string {
	if err.Detail == "" {
		return err.Class.name
	}
	return err.Class.name + ": " + err.Detail
}

// Fault builds the fault envelope of the error.
func (err *HTTPError) Fault() *Fault {
	return NewFault(err.Class, err.Detail)
}

// Status classes.
var (
	HTTPBadRequest = NewStatusClass(
		"HTTPBadRequest", http.StatusBadRequest,
		"The server could not comply with the request since it is either "+
			"malformed or otherwise incorrect.",
	)
	HTTPUnauthorized = NewStatusClass(
		"HTTPUnauthorized", http.StatusUnauthorized,
		"This server could not verify that you are authorized to access the "+
			"document you requested.",
	)
	HTTPForbidden = NewStatusClass(
		"HTTPForbidden", http.StatusForbidden,
		"Access was denied to this resource.",
	)
	HTTPNotFound = NewStatusClass(
		"HTTPNotFound", http.StatusNotFound,
		"The resource could not be found.",
	)
	HTTPMethodNotAllowed = NewStatusClass(
		"HTTPMethodNotAllowed", http.StatusMethodNotAllowed,
		"The method is not allowed for this resource.",
	)
	HTTPNotAcceptable = NewStatusClass(
		"HTTPNotAcceptable", http.StatusNotAcceptable,
		"The resource could not be generated that was acceptable to your client.",
	)
	HTTPConflict = NewStatusClass(
		"HTTPConflict", http.StatusConflict,
		"There was a conflict when trying to complete your request.",
	)
	HTTPRequestEntityTooLarge = NewStatusClass(
		"HTTPRequestEntityTooLarge", http.StatusRequestEntityTooLarge,
		"The request is larger than the server is willing or able to process.",
	)
	HTTPUnsupportedMediaType = NewStatusClass(
		"HTTPUnsupportedMediaType", http.StatusUnsupportedMediaType,
		"The request media type is not supported by this server.",
	)
	HTTPUnprocessableEntity = NewStatusClass(
		"HTTPUnprocessableEntity", http.StatusUnprocessableEntity,
		"Unable to process the contained instructions.",
	)
	HTTPInternalServerError = NewStatusClass(
		"HTTPInternalServerError", http.StatusInternalServerError,
		"The server has either erred or is incapable of performing the requested "+
			"operation.",
	)
	// Generic server-side failure family, reported as "serverError".
	HTTPServerError = NewStatusClass(
		"HTTPServerError", http.StatusInternalServerError,
		"The server has either erred or is incapable of performing the requested "+
			"operation.",
	)
	HTTPNotImplemented = NewStatusClass(
		"HTTPNotImplemented", http.StatusNotImplemented,
		"The server has not implemented the requested operation.",
	)
	HTTPServiceUnavailable = NewStatusClass(
		"HTTPServiceUnavailable", http.StatusServiceUnavailable,
		"The server is currently unavailable. Please try again at a later time.",
	)
)

// List of default StatusClass definitions, one per status code.
var StatusClassList = []*StatusClass{
	HTTPBadRequest,
	HTTPUnauthorized,
	HTTPForbidden,
	HTTPNotFound,
	HTTPMethodNotAllowed,
	HTTPNotAcceptable,
	HTTPConflict,
	HTTPRequestEntityTooLarge,
	HTTPUnsupportedMediaType,
	HTTPUnprocessableEntity,
	HTTPInternalServerError,
	HTTPNotImplemented,
	HTTPServiceUnavailable,
}

// Used to make statusClassCodeIndex.
func makeStatusClassCodeIndex() map[int]*StatusClass {
	index := make(map[int]*StatusClass)
	for _, class := range StatusClassList {
		index[class.code] = class
	}
	return index
}

// Code:*StatusClass indexing of default classes.
var statusClassCodeIndex = makeStatusClassCodeIndex()

// ClassForCode returns the declared class for an HTTP status code. Codes without a
// declared class get a class named after their status text, such as
// "HTTPTooManyRequests".
func ClassForCode(code int) *StatusClass {
	if class, ok := statusClassCodeIndex[code]; ok {
		return class
	}

	text := http.StatusText(code)
	return NewStatusClass("HTTP"+strings.Replace(text, " ", "", -1), code, text)
}
