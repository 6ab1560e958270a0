package mimetype_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/illuscio-dev/apiwire-go/mimetype"
)

func ParameterizeFromString(
	test *testing.T, testStrings []string, mimeTypeExpected mimetype.MimeType,
) {
	for _, mimeTypeString := range testStrings {
		mimeTypeExtracted := mimetype.FromString(mimeTypeString)
		assert.Equal(test, mimeTypeExpected, mimeTypeExtracted, mimeTypeString)
	}
}

func ParameterizeFromHeader(
	test *testing.T, testStrings []string, mimeTypeExpected mimetype.MimeType,
) {
	for _, mimeTypeString := range testStrings {
		req := http.Request{
			Header: make(http.Header),
		}
		req.Header.Set("Content-Type", mimeTypeString)
		mimeTypeExtracted := mimetype.FromHeader(req.Header)
		assert.Equal(test, mimeTypeExpected, mimeTypeExtracted, mimeTypeString)
	}
}

func TestFromJson(test *testing.T) {
	stringValues := []string{
		"json",
		"JSON",
		"x-json",
		"application/json",
		"application/JSON",
		"application/x-json",
		"application/json; charset=UTF-8",
		"application/vnd.openstack.reddwarf+json",
	}

	test.Run("JSON From String", func(subTest *testing.T) {
		ParameterizeFromString(subTest, stringValues, mimetype.JSON)
	})
	test.Run("JSON From Header", func(subTest *testing.T) {
		ParameterizeFromHeader(subTest, stringValues, mimetype.JSON)
	})
}

func TestFromXml(test *testing.T) {
	stringValues := []string{
		"xml",
		"XML",
		"application/xml",
		"application/XML",
		"text/xml",
		"application/xml; charset=utf-8",
		"application/vnd.openstack.reddwarf+xml",
	}

	test.Run("XML From String", func(subTest *testing.T) {
		ParameterizeFromString(subTest, stringValues, mimetype.XML)
	})
	test.Run("XML From Header", func(subTest *testing.T) {
		ParameterizeFromHeader(subTest, stringValues, mimetype.XML)
	})
}

func TestFromBson(test *testing.T) {
	stringValues := []string{
		"bson",
		"BSON",
		"application/bson",
		"application/x-bson",
	}

	ParameterizeFromString(test, stringValues, mimetype.BSON)
	ParameterizeFromHeader(test, stringValues, mimetype.BSON)
}

func TestFromText(test *testing.T) {
	stringValues := []string{
		"text",
		"TEXT",
		"text/plain",
		"text/plain; charset=utf-8",
		"TEXT/plain; charset=UTF-8",
	}

	ParameterizeFromString(test, stringValues, mimetype.TEXT)
	ParameterizeFromHeader(test, stringValues, mimetype.TEXT)
}

func TestFromUnknown(test *testing.T) {
	ParameterizeFromString(test, []string{"", "  "}, mimetype.UNKNOWN)
	ParameterizeFromHeader(test, []string{""}, mimetype.UNKNOWN)
}

func TestFromStringOther(test *testing.T) {
	stringValues := []string{"text/csv", "TEXT/CSV", "text/CSV"}
	ParameterizeFromString(test, stringValues, mimetype.MimeType("text/csv"))
}

func TestFromExtension(test *testing.T) {
	assert := assert.New(test)

	assert.Equal(mimetype.JSON, mimetype.FromExtension("json"))
	assert.Equal(mimetype.XML, mimetype.FromExtension("XML"))
	assert.Equal(mimetype.UNKNOWN, mimetype.FromExtension("yaml"))
	assert.Equal(mimetype.UNKNOWN, mimetype.FromExtension(""))

	assert.Equal("xml", mimetype.XML.Extension())
	assert.Equal("json", mimetype.JSON.Extension())
}
