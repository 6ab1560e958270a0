package encoding_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/illuscio-dev/apiwire-go/encoding"
	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/mimetype"
)

type Name struct {
	First string
	Last  string
}

func TestBSONDecodeNormalizes(test *testing.T) {
	created := time.Date(2012, 3, 28, 21, 31, 2, 0, time.UTC)
	objectID := primitive.NewObjectID()

	raw, err := bson.Marshal(bson.D{
		{Key: "instance", Value: bson.D{
			{Key: "id", Value: objectID},
			{Key: "name", Value: "db1"},
			{Key: "flavorRef", Value: int32(2)},
			{Key: "created", Value: primitive.NewDateTimeFromTime(created)},
			{Key: "databases", Value: bson.A{
				bson.D{{Key: "name", Value: "sales"}},
			}},
		}},
	})
	if err != nil {
		test.Fatal(err)
	}

	body, err := encoding.DecodeBody(
		encoding.NewContentEngine(nil), mimetype.BSON, bytes.NewReader(raw),
	)
	if err != nil {
		test.Fatal(err)
	}

	expected := encoding.Body{
		"instance": map[string]interface{}{
			"id":        objectID.Hex(),
			"name":      "db1",
			"flavorRef": int64(2),
			"created":   "2012-03-28T21:31:02Z",
			"databases": []interface{}{
				map[string]interface{}{"name": "sales"},
			},
		},
	}

	if diff := cmp.Diff(expected, body); diff != "" {
		test.Errorf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestBSONRoundTripBody(test *testing.T) {
	engine := encoding.NewContentEngine(nil)

	body := encoding.Body{
		"user": map[string]interface{}{
			"name":      "sam",
			"databases": []interface{}{"sales", "stock"},
			"quota":     int64(10),
		},
	}

	buffer, err := encoding.EncodeBody(engine, mimetype.BSON, body)
	if err != nil {
		test.Fatal(err)
	}

	decoded, err := encoding.DecodeBody(engine, mimetype.BSON, buffer)
	if err != nil {
		test.Fatal(err)
	}

	if diff := cmp.Diff(body, decoded); diff != "" {
		test.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBSONTypedReceiver(test *testing.T) {
	assert := assert.New(test)
	engine := encoding.NewContentEngine(nil)

	testName := Name{First: "Harry", Last: "Potter"}

	buffer := bytes.Buffer{}
	assert.NoError(engine.Encode(mimetype.BSON, testName, &buffer))

	loaded := Name{}
	assert.NoError(engine.Decode(mimetype.BSON, &loaded, &buffer))
	assert.Equal(testName, loaded)
}

func TestBSONDecodeMalformed(test *testing.T) {
	_, err := encoding.DecodeBody(
		encoding.NewContentEngine(nil),
		mimetype.BSON,
		bytes.NewReader([]byte{0x05, 0x00, 0x00}),
	)
	assertKind(test, err, faults.MalformedBody)
}
