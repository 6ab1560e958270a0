package faults_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/apiwire-go/faults"
)

func defaultMap(test *testing.T) *faults.ExceptionMap {
	exceptionMap, err := faults.NewExceptionMap(faults.DefaultStatusTable())
	if err != nil {
		test.Fatal(err)
	}
	return exceptionMap
}

func TestNewError(test *testing.T) {
	assert := assert.New(test)

	sourceErr := xerrors.New("some source error")
	err := faults.NotFound.New("instance 42 not found", sourceErr)

	assert.Equal(faults.NotFound, err.Kind())
	assert.True(err.IsKind(faults.NotFound))
	assert.False(err.IsKind(faults.UserNotFound))
	assert.NotEqual(uuid.Nil, err.ID)
	assert.Equal("instance 42 not found", err.Message)
	assert.Equal("NotFound - instance 42 not found", err.Error())
	assert.Equal(sourceErr, err.Unwrap())

	assert.True(xerrors.Is(err, faults.NotFound))
	assert.False(xerrors.Is(err, faults.BadRequest))
	assert.True(xerrors.Is(err, sourceErr))
}

func TestNewfError(test *testing.T) {
	err := faults.BadValue.Newf("flavor %d is invalid", 7)
	assert.Equal(test, "flavor 7 is invalid", err.Message)
	assert.Nil(test, err.Unwrap())
	assert.Contains(test, fmt.Sprintf("%+v", err), "faults_test.go")
}

func TestLogMessage(test *testing.T) {
	assert := assert.New(test)

	err := faults.UpdateGuestError.New("guest unreachable", xerrors.New("timeout"))
	message := err.LogMessage()

	assert.Contains(message, "MESSAGE: UpdateGuestError - guest unreachable")
	assert.Contains(message, "ORIGINAL: timeout")
	assert.Contains(message, err.ID.String())
	assert.Contains(message, "PANIC STACK:")
}

func TestPanicError(test *testing.T) {
	assert := assert.New(test)

	panicked := false

	func() {
		defer func() {
			recovered := recover()
			err, ok := recovered.(*faults.Error)
			assert.True(ok)
			assert.True(err.IsKind(faults.QuotaExceeded))
			panicked = true
		}()

		faults.QuotaExceeded.Panic("too many instances", nil)
	}()

	assert.True(panicked)
}

func TestFaultNames(test *testing.T) {
	cases := map[*faults.StatusClass]string{
		faults.HTTPBadRequest:            "badRequest",
		faults.HTTPUnauthorized:          "unauthorized",
		faults.HTTPForbidden:             "forbidden",
		faults.HTTPNotFound:              "itemNotFound",
		faults.HTTPMethodNotAllowed:      "badMethod",
		faults.HTTPRequestEntityTooLarge: "overLimit",
		faults.HTTPUnsupportedMediaType:  "badMediaType",
		faults.HTTPInternalServerError:   "instanceFault",
		faults.HTTPNotImplemented:        "notImplemented",
		faults.HTTPServiceUnavailable:    "serviceUnavailable",
		faults.HTTPNotAcceptable:         "notAcceptable",
		faults.HTTPConflict:              "conflict",
		faults.HTTPUnprocessableEntity:   "unprocessableEntity",
		faults.HTTPServerError:           "serverError",
	}

	for class, expected := range cases {
		assert.Equal(test, expected, class.FaultName(), class.Name())
	}
}

func TestClassForCode(test *testing.T) {
	assert := assert.New(test)

	assert.Equal(faults.HTTPNotFound, faults.ClassForCode(404))
	assert.Equal(faults.HTTPInternalServerError, faults.ClassForCode(500))

	class := faults.ClassForCode(http.StatusTooManyRequests)
	assert.Equal("HTTPTooManyRequests", class.Name())
	assert.Equal("tooManyRequests", class.FaultName())
	assert.Equal(429, class.Code())
}

func TestFaultBody(test *testing.T) {
	assert := assert.New(test)

	fault := faults.NewFault(faults.HTTPNotFound, "no such instance")
	assert.Equal(
		map[string]interface{}{
			"itemNotFound": map[string]interface{}{
				"code":    404,
				"message": "no such instance",
			},
		},
		fault.Body(),
	)

	// Empty detail falls back to the explanation.
	fault = faults.NewFault(faults.HTTPNotFound, "")
	assert.Equal(faults.HTTPNotFound.Explanation(), fault.Message)
	assert.Len(fault.Body(), 1)
}

func TestExceptionMapRegisteredKinds(test *testing.T) {
	exceptionMap := defaultMap(test)

	for class, kinds := range faults.DefaultStatusTable() {
		for _, kind := range kinds {
			err := kind.New("detail", nil)

			assert.Equal(test, class, exceptionMap.Lookup(err), kind.Name())
			fault := exceptionMap.FaultFor(err)
			assert.Equal(test, class.Code(), fault.Code, kind.Name())
			assert.Equal(test, class.FaultName(), fault.Name, kind.Name())
			assert.Equal(test, "detail", fault.Message, kind.Name())
		}
	}
}

func TestExceptionMapUnregisteredDefaults(test *testing.T) {
	assert := assert.New(test)
	exceptionMap := defaultMap(test)

	unregistered := faults.NewKind("BackupIncomplete")
	fault := exceptionMap.FaultFor(unregistered.New("backup is still running", nil))

	assert.Equal(400, fault.Code)
	assert.Equal("badRequest", fault.Name)
	assert.Equal("backup is still running", fault.Message)

	assert.Equal(faults.HTTPBadRequest, exceptionMap.Lookup(xerrors.New("plain")))
}

func TestExceptionMapWrappedKind(test *testing.T) {
	exceptionMap := defaultMap(test)

	err := xerrors.Errorf("loading instance: %w", faults.NotFound.New("gone", nil))
	assert.Equal(test, faults.HTTPNotFound, exceptionMap.Lookup(err))
}

func TestExceptionMapHTTPError(test *testing.T) {
	assert := assert.New(test)
	exceptionMap := defaultMap(test)

	fault := exceptionMap.FaultFor(faults.HTTPConflict.New(""))
	assert.Equal(409, fault.Code)
	assert.Equal("conflict", fault.Name)
	assert.Equal(faults.HTTPConflict.Explanation(), fault.Message)

	assert.True(strings.HasPrefix(faults.HTTPConflict.New("x").Error(), "HTTPConflict"))
}

func TestExceptionMapServerErrorFamily(test *testing.T) {
	fault := defaultMap(test).FaultFor(faults.VolumeCreationFailure.New("no volume", nil))
	assert.Equal(test, 500, fault.Code)
	assert.Equal(test, "serverError", fault.Name)
}

func TestExceptionMapDuplicateKind(test *testing.T) {
	table := faults.StatusTable{
		faults.HTTPNotFound: {faults.NotFound},
		faults.HTTPConflict: {faults.NotFound},
	}
	_, err := faults.NewExceptionMap(table)
	assert.Error(test, err)
}

func TestStatusTableMerge(test *testing.T) {
	assert := assert.New(test)

	backupMissing := faults.NewKind("BackupNotFound")
	merged := faults.DefaultStatusTable().Merge(faults.StatusTable{
		faults.HTTPNotFound: {backupMissing},
	})

	exceptionMap, err := faults.NewExceptionMap(merged)
	assert.NoError(err)
	assert.Equal(faults.HTTPNotFound, exceptionMap.ClassOf(backupMissing))
	assert.Equal(faults.HTTPNotFound, exceptionMap.ClassOf(faults.UserNotFound))
	// Every declared kind but SerializationError, plus the new one.
	assert.Equal(len(faults.KindList), exceptionMap.Len())
}

func TestToHeader(test *testing.T) {
	err := faults.NotFound.New("gone", nil)

	header := http.Header{}
	err.ToHeader(header)

	assert.Equal(test, err.ID.String(), header.Get(faults.ErrorIDHeader))
}
