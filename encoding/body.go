package encoding

import (
	"reflect"

	"github.com/illuscio-dev/apiwire-go/mimetype"
)

// Body is the normalized, format independent form of a request or response body.
// Values are strings, numbers, bools, nil, map[string]interface{} and []interface{}.
type Body = map[string]interface{}

// JSONProjector is implemented by results that render differently as JSON than their
// raw data.
type JSONProjector interface {
	DataForJSON() interface{}
}

// XMLProjector is implemented by results that render differently as XML than their
// raw data. The projection is expected to hold a single root key, optionally next to
// "links".
type XMLProjector interface {
	DataForXML() interface{}
}

// Project returns the view of data to serialize for mimeType.
func Project(mimeType mimetype.MimeType, data interface{}) interface{} {
	if mimeType == mimetype.XML {
		if projector, ok := data.(XMLProjector); ok {
			return projector.DataForXML()
		}
	}
	if projector, ok := data.(JSONProjector); ok {
		return projector.DataForJSON()
	}
	return data
}

// asMapping returns value as a map with string keys, converting other string-keyed
// map types.
func asMapping(value interface{}) (map[string]interface{}, bool) {
	switch typed := value.(type) {
	case map[string]interface{}:
		return typed, true
	case map[string]string:
		mapping := make(map[string]interface{}, len(typed))
		for key, item := range typed {
			mapping[key] = item
		}
		return mapping, true
	}

	reflected := reflect.ValueOf(value)
	if reflected.Kind() != reflect.Map || reflected.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	mapping := make(map[string]interface{}, reflected.Len())
	iter := reflected.MapRange()
	for iter.Next() {
		mapping[iter.Key().String()] = iter.Value().Interface()
	}
	return mapping, true
}

// asSequence returns value as a []interface{}, converting other slice and array types.
// Byte slices are not sequences.
func asSequence(value interface{}) ([]interface{}, bool) {
	switch typed := value.(type) {
	case []interface{}:
		return typed, true
	case []byte:
		return nil, false
	}

	reflected := reflect.ValueOf(value)
	if reflected.Kind() != reflect.Slice && reflected.Kind() != reflect.Array {
		return nil, false
	}

	sequence := make([]interface{}, reflected.Len())
	for index := range sequence {
		sequence[index] = reflected.Index(index).Interface()
	}
	return sequence, true
}
