package api

import (
	"net/http"
	"sync"

	"github.com/illuscio-dev/apiwire-go/encoding"
	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/logging"
	"github.com/illuscio-dev/apiwire-go/mimetype"
	"github.com/illuscio-dev/apiwire-go/models"
)

// Response is a finished response. Actions return one to bypass serialization; it is
// written as is.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Send copies the response to w.
func (response *Response) Send(w http.ResponseWriter) {
	for key, values := range response.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	status := response.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(response.Body)
}

func setContentType(w http.ResponseWriter, mimeType mimetype.MimeType) {
	w.Header().Set("Content-Type", string(mimeType))
}

// faultEngines holds one engine per fault name, each with a schema rendering the code
// of that fault element as an attribute. Engines are safe for concurrent use.
var faultEngines sync.Map

func faultEngine(name string) *encoding.Engine {
	if engine, ok := faultEngines.Load(name); ok {
		return engine.(*encoding.Engine)
	}
	engine, _ := faultEngines.LoadOrStore(name, encoding.NewContentEngine(
		encoding.NewXMLSchema("", nil, map[string][]string{name: {"code"}}),
	))
	return engine.(*encoding.Engine)
}

// WriteFault renders fault as mimeType. XML faults carry no namespace and hold the
// code as an attribute of the fault element. Anything but XML is rendered as JSON.
func WriteFault(w http.ResponseWriter, mimeType mimetype.MimeType, fault *faults.Fault) {
	if mimeType != mimetype.XML {
		mimeType = mimetype.JSON
	}

	buffer, err := encoding.EncodeBody(faultEngine(fault.Name), mimeType, fault.Body())
	if err != nil {
		// Fault bodies only hold strings and an int, this cannot happen short of a
		// broken encoder registration.
		logger := logging.WithComponent("faults")
		logger.Error().Err(err).Msg("fault rendering failed")
		http.Error(w, fault.Message, fault.Code)
		return
	}

	recordFault(fault.Name, fault.Code)
	setContentType(w, mimeType)
	w.WriteHeader(fault.Code)
	_, _ = w.Write(buffer.Bytes())
}

/*
ResponseSerializer writes action results.

• *Response values are written untouched.

• *models.Result values are projected for the negotiated type, rendered into a buffer
and written with the status of the result. A result without data writes an empty body.

A result which cannot be rendered is a defect of the action: the failure is logged and
re-raised as a panic carrying the SerializationError, for FaultWrapper to answer with a
500 fault. Nothing is written to the client before rendering succeeds.
*/
type ResponseSerializer struct {
	engine encoding.ContentEngine
}

// NewResponseSerializer returns a serializer rendering through engine.
func NewResponseSerializer(engine encoding.ContentEngine) *ResponseSerializer {
	return &ResponseSerializer{engine: engine}
}

// Serialize writes result to w as mimeType.
func (serializer *ResponseSerializer) Serialize(
	w http.ResponseWriter, request *Request, result interface{},
) {
	mimeType := request.BestMatchContentType()

	var envelope *models.Result
	switch typed := result.(type) {
	case *Response:
		typed.Send(w)
		return
	case *models.Result:
		envelope = typed
	case nil:
		envelope = models.NewResult(nil)
	default:
		envelope = models.NewResult(typed)
	}

	if !envelope.HasData() {
		w.WriteHeader(envelope.Status)
		return
	}

	buffer, err := encoding.EncodeBody(serializer.engine, mimeType, envelope.Data(mimeType))
	if err != nil {
		recordSerializationFailure()
		logger := request.Logger()
		logger.Error().
			Str(logging.FieldMediaType, string(mimeType)).
			Err(err).
			Msg("unserializable result detected")
		panic(err)
	}

	recordNegotiated(mimeType)
	setContentType(w, mimeType)
	w.WriteHeader(envelope.Status)
	_, _ = w.Write(buffer.Bytes())
}
