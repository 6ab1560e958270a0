package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/illuscio-dev/apiwire-go/encoding"
	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/logging"
	"github.com/illuscio-dev/apiwire-go/mimetype"
	"github.com/illuscio-dev/apiwire-go/models"
)

// Request wraps an incoming *http.Request with the negotiation results of the server.
// It is owned by a single request and never shared.
type Request struct {
	*http.Request

	negotiator *mimetype.Negotiator
	engine     encoding.ContentEngine
	bestMatch  mimetype.MimeType
	body       encoding.Body
	bodyErr    error
	bodyRead   bool
}

// NewRequest wraps r. The response type is negotiated once, here.
func NewRequest(
	r *http.Request, negotiator *mimetype.Negotiator, engine encoding.ContentEngine,
) *Request {
	return &Request{
		Request:    r,
		negotiator: negotiator,
		engine:     engine,
		bestMatch:  negotiator.BestMatch(r.URL.Path, r.Header.Get("Accept")),
	}
}

// BestMatchContentType returns the negotiated response type, JSON or XML.
func (request *Request) BestMatchContentType() mimetype.MimeType {
	return request.bestMatch
}

// URLVersion returns the version in the request path, empty when there is none.
func (request *Request) URLVersion() string {
	return mimetype.URLVersion(request.URL.Path)
}

// AcceptVersion returns the version requested through the Accept header, empty when
// there is none.
func (request *Request) AcceptVersion() string {
	return request.negotiator.AcceptVersion(request.Header.Get("Accept"))
}

// ContentType returns the declared type of the request body. A missing Content-Type
// is read as JSON.
func (request *Request) ContentType() mimetype.MimeType {
	contentType := mimetype.FromHeader(request.Header)
	if contentType == mimetype.UNKNOWN {
		return mimetype.JSON
	}
	return contentType
}

// DecodeBody decodes the request body into its normalized form. The body is read only
// once; later calls return the first result. An empty body returns nil.
func (request *Request) DecodeBody() (encoding.Body, error) {
	if request.bodyRead {
		return request.body, request.bodyErr
	}
	request.bodyRead = true

	if request.Request.Body == nil || request.Request.Body == http.NoBody {
		return nil, nil
	}

	request.body, request.bodyErr = encoding.DecodeBody(
		request.engine, request.ContentType(), request.Request.Body,
	)
	return request.body, request.bodyErr
}

// RequestContext returns the context attached by ContextMiddleware, or nil.
func (request *Request) RequestContext() *models.RequestContext {
	requestContext, _ := models.RequestContextFrom(request.Context())
	return requestContext
}

// Logger returns the logger of the request.
func (request *Request) Logger() zerolog.Logger {
	return logging.FromContext(request.Context())
}

// WriteFault renders fault as the negotiated type of the request.
func (request *Request) WriteFault(w http.ResponseWriter, fault *faults.Fault) {
	WriteFault(w, request.bestMatch, fault)
}
