// Enumeration-like type for content mimetypes.
package mimetype

import (
	"mime"
	"strings"
)

/*
MimeType is used to enumerate the default representation for content encoding types.
Non default MimeTypes can be used by wrapping a custom string:

	MimeType("text/csv")

Responses are only ever negotiated to JSON or XML. BSON is accepted for request bodies,
and TEXT is recognized so that unstructured error pages can be detected.
*/
type MimeType string

const (
	JSON = MimeType("application/json")
	XML  = MimeType("application/xml")
	BSON = MimeType("application/bson")
	TEXT = MimeType("text/plain")
	// UNKNOWN is used when the incoming string is blank
	UNKNOWN = MimeType("")
)

// List of default mimeTypes that are encoded to / from objects (as opposed to raw
// text).
var objectMimeTypes = []MimeType{JSON, XML, BSON}

// Interface for object used to set headers such as http.Request.Header or
// http.Response.Header
type headerFetcher interface {
	Get(string) string
}

// Extract content type from a message / request header.
func FromHeader(headers headerFetcher) MimeType {
	return FromString(headers.Get("Content-Type"))
}

/*
Convert MimeType from a string. Ignores case and media type parameters such as
charset. If the MimeType is a default type, multiple formats are respected. For
instance, all of the following will yield "mimetype.JSON":

• "application/json"

• "application/JSON; charset=UTF-8"

• "application/x-json"

• "application/vnd.openstack.reddwarf+json"

• "json"
*/
func FromString(incoming string) MimeType {
	incoming = strings.ToLower(strings.TrimSpace(incoming))

	if incoming == "" {
		return UNKNOWN
	}
	if parsed, _, err := mime.ParseMediaType(incoming); err == nil {
		incoming = parsed
	}
	if incoming == "text/plain" || incoming == "text" {
		return TEXT
	}

	for _, mimeType := range objectMimeTypes {
		mimeTypeLower := strings.Split(string(mimeType), "/")[1]
		if strings.HasSuffix(incoming, mimeTypeLower) {
			return mimeType
		}
	}

	return MimeType(incoming)
}

// FromExtension returns the object mimetype named by a path extension such as "json"
// or "xml". UNKNOWN is returned for anything else.
func FromExtension(extension string) MimeType {
	switch strings.ToLower(extension) {
	case "json":
		return JSON
	case "xml":
		return XML
	}
	return UNKNOWN
}

// Extension returns the path extension for the mimetype, without the leading dot.
func (mimeType MimeType) Extension() string {
	switch mimeType {
	case JSON:
		return "json"
	case XML:
		return "xml"
	case BSON:
		return "bson"
	case TEXT:
		return "txt"
	}
	return ""
}

func (mimeType MimeType) String() string {
	return string(mimeType)
}
