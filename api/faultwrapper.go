package api

import (
	"bytes"
	"net/http"
	"runtime/debug"

	"golang.org/x/xerrors"

	"github.com/illuscio-dev/apiwire-go/config"
	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/logging"
	"github.com/illuscio-dev/apiwire-go/mimetype"
)

// Plain text error responses with these statuses are replaced by a fault document.
var convertedStatuses = map[int]bool{
	http.StatusBadRequest:   true,
	http.StatusUnauthorized: true,
	http.StatusForbidden:    true,
	http.StatusNotFound:     true,
}

// bufferedWriter holds a response until the wrapped handler returns.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (writer *bufferedWriter) Header() http.Header {
	return writer.header
}

func (writer *bufferedWriter) WriteHeader(status int) {
	if writer.status == 0 {
		writer.status = status
	}
}

func (writer *bufferedWriter) Write(data []byte) (int, error) {
	if writer.status == 0 {
		writer.status = http.StatusOK
	}
	return writer.body.Write(data)
}

func (writer *bufferedWriter) statusCode() int {
	if writer.status == 0 {
		return http.StatusOK
	}
	return writer.status
}

func (writer *bufferedWriter) copyTo(w http.ResponseWriter) {
	for key, values := range writer.header {
		w.Header()[key] = values
	}
	w.WriteHeader(writer.statusCode())
	_, _ = w.Write(writer.body.Bytes())
}

/*
FaultWrapper is the outermost middleware of an application.

A panic escaping the handler is logged and answered with a 500 instanceFault; nothing
the handler wrote before panicking reaches the client. Plain text 400, 401, 403 and 404
responses, as written by routers and http.Error, are replaced by the fault of their
status in the negotiated content type. Every other response passes through unchanged.
*/
func FaultWrapper(cfg *config.Config) func(http.Handler) http.Handler {
	negotiator := mimetype.NewNegotiator(cfg.MediaType.Vendor)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bestMatch := negotiator.BestMatch(r.URL.Path, r.Header.Get("Accept"))
			buffered := newBufferedWriter()

			if panicked := serveRecovered(next, buffered, r); panicked {
				WriteFault(w, bestMatch, faults.NewFault(faults.HTTPInternalServerError, ""))
				return
			}

			status := buffered.statusCode()
			contentType := mimetype.FromString(buffered.header.Get("Content-Type"))
			if convertedStatuses[status] && contentType == mimetype.TEXT {
				WriteFault(w, bestMatch, faults.NewFault(faults.ClassForCode(status), ""))
				return
			}

			buffered.copyTo(w)
		})
	}
}

// serveRecovered runs next, reporting whether it panicked. http.ErrAbortHandler is
// re-raised for the server to abort the connection.
func serveRecovered(next http.Handler, w http.ResponseWriter, r *http.Request) (panicked bool) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		if recovered == http.ErrAbortHandler {
			panic(recovered)
		}
		panicked = true

		err, ok := recovered.(error)
		if !ok {
			err = xerrors.Errorf("panic: %v", recovered)
		}

		logger := logging.WithComponent("faultwrapper")
		event := logger.Error().
			Err(err).
			Str(logging.FieldMethod, r.Method).
			Str(logging.FieldPath, r.URL.Path)

		var kindErr *faults.Error
		if xerrors.As(err, &kindErr) {
			event.Str(logging.FieldErrorID, kindErr.ID.String()).Msg(kindErr.LogMessage())
			return
		}
		event.Str(logging.FieldStack, string(debug.Stack())).Msg("caught error")
	}()

	next.ServeHTTP(w, r)
	return false
}
