package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/apiwire-go/api"
	"github.com/illuscio-dev/apiwire-go/config"
	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/models"
)

const (
	xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`
	xmlns     = `xmlns="http://docs.openstack.org/database/api/v1.0"`
	token     = "token-1"
)

var (
	InstanceNotFound = faults.NewKind("InstanceNotFound")
	Unregistered     = faults.NewKind("Unregistered")
)

type instanceController struct {
	api.BaseController
}

func newInstanceController() *instanceController {
	return &instanceController{
		BaseController: api.BaseController{ExcludeAttrs: []string{"id"}},
	}
}

func (controller *instanceController) ExceptionTable() faults.StatusTable {
	return controller.BaseController.ExceptionTable().Merge(faults.StatusTable{
		faults.HTTPNotFound: {InstanceNotFound},
	})
}

func (controller *instanceController) Actions() map[string]api.ActionFunc {
	return map[string]api.ActionFunc{
		"index":         controller.index,
		"show":          controller.show,
		"create":        controller.create,
		"delete":        controller.delete,
		"context":       controller.context,
		"unregistered":  unregisteredAction,
		"generic":       genericAction,
		"conflict":      conflictAction,
		"raw":           rawAction,
		"plainNotFound": plainNotFoundAction,
		"twoRoots":      twoRootsAction,
		"panic":         panicAction,
		"kindPanic":     kindPanicAction,
		"empty":         emptyAction,
	}
}

func unregisteredAction(*api.Request, api.ActionArgs) (interface{}, error) {
	return nil, Unregistered.New("odd failure", nil)
}

func genericAction(*api.Request, api.ActionArgs) (interface{}, error) {
	return nil, xerrors.New("db password is hunter2")
}

func conflictAction(*api.Request, api.ActionArgs) (interface{}, error) {
	return nil, faults.HTTPConflict.New("already resizing")
}

func rawAction(*api.Request, api.ActionArgs) (interface{}, error) {
	return &api.Response{
		Status: http.StatusNonAuthoritativeInfo,
		Header: http.Header{"Content-Type": {"text/csv"}},
		Body:   []byte("a,b"),
	}, nil
}

func plainNotFoundAction(*api.Request, api.ActionArgs) (interface{}, error) {
	return &api.Response{
		Status: http.StatusNotFound,
		Header: http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
		Body:   []byte("nothing here"),
	}, nil
}

func twoRootsAction(*api.Request, api.ActionArgs) (interface{}, error) {
	return map[string]interface{}{"instance": "a", "flavor": "b"}, nil
}

func panicAction(*api.Request, api.ActionArgs) (interface{}, error) {
	panic("boom")
}

func kindPanicAction(*api.Request, api.ActionArgs) (interface{}, error) {
	InstanceNotFound.Panic("instance gone", nil)
	return nil, nil
}

func emptyAction(*api.Request, api.ActionArgs) (interface{}, error) {
	return nil, nil
}

func instanceView(id string) map[string]interface{} {
	return map[string]interface{}{"id": id, "name": "db" + id, "status": "ACTIVE"}
}

func (controller *instanceController) index(
	request *api.Request, args api.ActionArgs,
) (interface{}, error) {
	return map[string]interface{}{
		"instances": []interface{}{instanceView("1")},
	}, nil
}

func (controller *instanceController) show(
	request *api.Request, args api.ActionArgs,
) (interface{}, error) {
	id := args.String("id")
	if id == "42" {
		return nil, InstanceNotFound.New("instance 42 not found", nil)
	}
	return models.NewResult(map[string]interface{}{"instance": instanceView(id)}), nil
}

func (controller *instanceController) context(
	request *api.Request, args api.ActionArgs,
) (interface{}, error) {
	requestContext := request.RequestContext()
	return map[string]interface{}{
		"context": map[string]interface{}{
			"tenant":     args.String("tenant_id"),
			"user":       requestContext.User,
			"admin":      requestContext.IsAdmin,
			"limit":      requestContext.Limit(),
			"marker":     requestContext.Marker(),
			"limitCount": len(controller.ExtractLimits(request.URL.Query())),
		},
	}, nil
}

func (controller *instanceController) create(
	request *api.Request, args api.ActionArgs,
) (interface{}, error) {
	params := controller.ExtractRequiredParams(args.Body(), "instance")
	if len(params) == 0 {
		return nil, faults.BadRequest.New("missing instance", nil)
	}
	return models.NewResultWithStatus(
		map[string]interface{}{"instance": params}, http.StatusAccepted,
	), nil
}

func (controller *instanceController) delete(
	request *api.Request, args api.ActionArgs,
) (interface{}, error) {
	return models.NewResultWithStatus(nil, http.StatusAccepted), nil
}

// newApp assembles the versions application at "/" and the v1.0 application.
func newApp(test *testing.T) http.Handler {
	test.Helper()
	cfg := config.Default()

	instances, err := api.NewResource(newInstanceController(), cfg)
	if err != nil {
		test.Fatal(err)
	}
	versions, err := api.NewResource(api.NewVersionsController(cfg.Versions), cfg)
	if err != nil {
		test.Fatal(err)
	}

	v1Router := api.NewRouter()
	v1Router.Get("/", versions.Action("show").ServeHTTP)
	v1Router.Get("/{tenant_id}/instances", instances.Action("index").ServeHTTP)
	v1Router.Post("/{tenant_id}/instances", instances.Action("create").ServeHTTP)
	v1Router.Get("/{tenant_id}/instances/{id}", instances.Action("show").ServeHTTP)
	v1Router.Delete("/{tenant_id}/instances/{id}", instances.Action("delete").ServeHTTP)
	v1Router.HandleFunc(
		"/{tenant_id}/actions/{name}",
		func(w http.ResponseWriter, r *http.Request) {
			instances.Action(chi.URLParam(r, "name")).ServeHTTP(w, r)
		},
	)

	versionsRouter := api.NewRouter()
	versionsRouter.Get("/", versions.Action("index").ServeHTTP)

	urlMap, err := api.NewVersionedURLMap(cfg, map[string]http.Handler{
		"/":     api.FaultWrapper(cfg)(versionsRouter),
		"/v1.0": api.FaultWrapper(cfg)(api.ContextMiddleware(cfg)(v1Router)),
	})
	if err != nil {
		test.Fatal(err)
	}
	return urlMap
}

// serve runs one request through handler. headers holds key, value pairs.
func serve(
	handler http.Handler, method string, target string, body string, headers ...string,
) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, target, reader)
	for index := 0; index+1 < len(headers); index += 2 {
		request.Header.Set(headers[index], headers[index+1])
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// serveAuthed is serve with an auth token.
func serveAuthed(
	handler http.Handler, method string, target string, body string, headers ...string,
) *httptest.ResponseRecorder {
	return serve(handler, method, target, body, append(headers, "X-Auth-Token", token)...)
}
