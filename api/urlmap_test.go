package api_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/illuscio-dev/apiwire-go/api"
	"github.com/illuscio-dev/apiwire-go/config"
)

const (
	versionedXML  = "application/vnd.openstack.reddwarf+xml;version=1.0"
	unknownJSON   = "application/vnd.openstack.reddwarf+json;version=2.0"
	unknownXMLVer = "application/vnd.openstack.reddwarf+xml;version=2.0"
)

func TestAcceptVersionDispatch(test *testing.T) {
	assert := assert.New(test)

	recorder := serveAuthed(newApp(test), "GET", "/t1/instances", "", "Accept", versionedXML)

	assert.Equal(http.StatusOK, recorder.Code)
	assert.Equal("application/xml", recorder.Header().Get("Content-Type"))
	assert.Equal(
		xmlHeader+`<instances `+xmlns+`><instance id="1" name="db1" status="ACTIVE"/></instances>`,
		recorder.Body.String(),
	)
}

func TestAcceptVersionNotSupported(test *testing.T) {
	assert := assert.New(test)
	app := newApp(test)

	recorder := serveAuthed(app, "GET", "/t1/instances", "", "Accept", unknownXMLVer)
	assert.Equal(http.StatusNotAcceptable, recorder.Code)
	assert.Equal(
		xmlHeader+`<notAcceptable code="406"><message>version not supported</message></notAcceptable>`,
		recorder.Body.String(),
	)

	recorder = serveAuthed(app, "GET", "/t1/instances", "", "Accept", unknownJSON)
	assert.Equal(http.StatusNotAcceptable, recorder.Code)
	assert.JSONEq(
		`{"notAcceptable": {"code": 406, "message": "version not supported"}}`,
		recorder.Body.String(),
	)
}

func TestURLVersionWinsOverAcceptVersion(test *testing.T) {
	recorder := serveAuthed(
		newApp(test), "GET", "/v1.0/t1/instances", "", "Accept", unknownJSON,
	)

	assert.Equal(test, http.StatusOK, recorder.Code)
	assert.JSONEq(
		test,
		`{"instances": [{"id": "1", "name": "db1", "status": "ACTIVE"}]}`,
		recorder.Body.String(),
	)
}

func TestURLMapUnknownPrefix(test *testing.T) {
	assert := assert.New(test)

	only := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	urlMap, err := api.NewVersionedURLMap(
		config.Default(), map[string]http.Handler{"/v1.0": only},
	)
	if !assert.NoError(err) {
		return
	}

	recorder := serve(urlMap, "GET", "/v1.0/anything", "")
	assert.Equal(http.StatusTeapot, recorder.Code)

	recorder = serve(urlMap, "GET", "/v2.0/anything", "")
	assert.Equal(http.StatusNotFound, recorder.Code)
	assert.Contains(recorder.Body.String(), `"itemNotFound"`)
}

func TestNewVersionedURLMapErrors(test *testing.T) {
	assert := assert.New(test)
	cfg := config.Default()
	handler := http.NotFoundHandler()

	_, err := api.NewVersionedURLMap(cfg, nil)
	assert.Error(err)

	_, err = api.NewVersionedURLMap(cfg, map[string]http.Handler{"/v1.0": nil})
	assert.Error(err)

	_, err = api.NewVersionedURLMap(
		cfg, map[string]http.Handler{"/v1.0": handler, "v1.0/": handler},
	)
	assert.Error(err)
}
