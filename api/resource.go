package api

import (
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/apiwire-go/config"
	"github.com/illuscio-dev/apiwire-go/encoding"
	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/logging"
	"github.com/illuscio-dev/apiwire-go/mimetype"
)

// BodyArg is the ActionArgs key of the decoded request body.
const BodyArg = "body"

// ActionArgs holds the URL parameters of a request and, under BodyArg, its decoded body.
type ActionArgs map[string]interface{}

// String returns the string argument name, empty when absent.
func (args ActionArgs) String(name string) string {
	value, _ := args[name].(string)
	return value
}

// Body returns the decoded request body, nil when the request had none.
func (args ActionArgs) Body() encoding.Body {
	body, _ := args[BodyArg].(encoding.Body)
	return body
}

/*
ActionFunc is a controller action. The returned value is one of:

• map[string]interface{}: rendered with status 200.

• *models.Result: rendered with the status of the result.

• *Response: written untouched.

• nil: an empty 200 response.

Errors are converted to faults through the exception map of the controller.
*/
type ActionFunc func(request *Request, args ActionArgs) (interface{}, error)

// Controller supplies the actions of a Resource and the status classes its errors are
// reported under. Embed BaseController for the default table.
type Controller interface {
	Actions() map[string]ActionFunc
	ExceptionTable() faults.StatusTable
}

// Framework kinds keep their status whatever table a controller declares.
var frameworkTable = faults.StatusTable{
	faults.HTTPBadRequest:           {faults.MalformedBody},
	faults.HTTPNotFound:             {faults.UnknownAction},
	faults.HTTPUnsupportedMediaType: {faults.UnsupportedMediaType},
}

// Resource executes the actions of a controller: it decodes the request body, calls
// the action, maps its errors to faults and serializes its result. Everything it holds
// is built once and read-only afterwards.
type Resource struct {
	actions      map[string]ActionFunc
	exceptionMap *faults.ExceptionMap
	engine       *encoding.Engine
	negotiator   *mimetype.Negotiator
	serializer   *ResponseSerializer
	logger       zerolog.Logger
}

// NewResource builds the resource of controller. An exception table registering a
// kind under two status classes is an error.
func NewResource(controller Controller, cfg *config.Config) (*Resource, error) {
	exceptionMap, err := faults.NewExceptionMap(
		controller.ExceptionTable().Merge(frameworkTable),
	)
	if err != nil {
		return nil, xerrors.Errorf("invalid exception table: %w", err)
	}

	engine := encoding.NewContentEngine(cfg.XMLSchema())

	actions := make(map[string]ActionFunc)
	for name, action := range controller.Actions() {
		actions[name] = action
	}

	return &Resource{
		actions:      actions,
		exceptionMap: exceptionMap,
		engine:       engine,
		negotiator:   mimetype.NewNegotiator(cfg.MediaType.Vendor),
		serializer:   NewResponseSerializer(engine),
		logger:       logging.WithComponent("resource"),
	}, nil
}

// Action returns the handler executing the named action. Unknown names yield a
// handler answering with a 404 fault.
func (resource *Resource) Action(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resource.serveAction(w, r, name)
	})
}

func (resource *Resource) serveAction(w http.ResponseWriter, r *http.Request, name string) {
	request := NewRequest(r, resource.negotiator, resource.engine)

	action, ok := resource.actions[name]
	if !ok {
		resource.writeError(w, request, faults.UnknownAction.New("unknown action: "+name, nil))
		return
	}

	args := actionArgs(r)
	body, err := request.DecodeBody()
	if err != nil {
		resource.writeError(w, request, err)
		return
	}
	if body != nil {
		args[BodyArg] = body
	}

	result, err := resource.execute(action, request, args)
	if err != nil {
		resource.writeError(w, request, err)
		return
	}

	resource.serializer.Serialize(w, request, result)
}

// actionArgs collects the URL parameters routed by chi. The wildcard of mounted
// routers is skipped.
func actionArgs(r *http.Request) ActionArgs {
	args := make(ActionArgs)

	routeContext := chi.RouteContext(r.Context())
	if routeContext == nil {
		return args
	}

	params := routeContext.URLParams
	for index, key := range params.Keys {
		if key == "*" || index >= len(params.Values) {
			continue
		}
		args[key] = params.Values[index]
	}
	return args
}

// execute calls action, turning a panic into an error.
func (resource *Resource) execute(
	action ActionFunc, request *Request, args ActionArgs,
) (result interface{}, err error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		if recoveredErr, ok := recovered.(error); ok {
			err = recoveredErr
		} else {
			err = xerrors.Errorf("panic in action: %v", recovered)
		}

		var kindErr *faults.Error
		if !xerrors.As(err, &kindErr) {
			logger := request.Logger()
			logger.Error().Str(logging.FieldStack, string(debug.Stack())).Msg("action panicked")
		}
	}()

	return action(request, args)
}

// writeError renders the fault of err. Kind errors and HTTP errors are reported as
// their class; anything else is an unexpected failure reported as a 500 with a generic
// message.
func (resource *Resource) writeError(w http.ResponseWriter, request *Request, err error) {
	logger := request.Logger()

	var fault *faults.Fault
	var kindErr *faults.Error
	var httpErr *faults.HTTPError

	switch {
	case xerrors.As(err, &httpErr):
		fault = httpErr.Fault()
		logger.Debug().Err(err).Msg("http error returned by action")
	case xerrors.As(err, &kindErr):
		fault = resource.exceptionMap.FaultFor(kindErr)
		kindErr.ToHeader(w.Header())
		logger.Debug().
			Str(logging.FieldErrorID, kindErr.ID.String()).
			Msg(kindErr.LogMessage())
	default:
		fault = faults.NewFault(faults.HTTPInternalServerError, "")
		logger.Error().Err(err).Msgf("unexpected error: %+v", err)
	}

	request.WriteFault(w, fault)
}
