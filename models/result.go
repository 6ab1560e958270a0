package models

import (
	"net/http"

	"github.com/illuscio-dev/apiwire-go/encoding"
	"github.com/illuscio-dev/apiwire-go/mimetype"
)

// Result pairs the data returned by an action with the status code of the response.
type Result struct {
	data interface{}
	// Status code of the response.
	Status int
}

// Data returns the view of the result to serialize as mimeType. Data implementing
// encoding.XMLProjector or encoding.JSONProjector is projected, other data is returned
// as is.
func (result *Result) Data(mimeType mimetype.MimeType) interface{} {
	return encoding.Project(mimeType, result.data)
}

// HasData returns false when the result renders an empty body.
func (result *Result) HasData() bool {
	return result.data != nil
}

// NewResult wraps data in a 200 OK result.
func NewResult(data interface{}) *Result {
	return NewResultWithStatus(data, http.StatusOK)
}

// NewResultWithStatus wraps data in a result with a custom status code. A zero status
// means 200 OK.
func NewResultWithStatus(data interface{}, status int) *Result {
	if status == 0 {
		status = http.StatusOK
	}
	return &Result{
		data:   data,
		Status: status,
	}
}
