package encoding

import (
	"io"
	"io/ioutil"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/xerrors"
)

// default BSON encoder for Engine.
type bsonEncoder struct{}

func (encoder *bsonEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	valueWriter, err := bsonrw.NewBSONValueWriter(writer)
	if err != nil {
		return xerrors.Errorf("error creating bson writer: %w", err)
	}

	bsonEncoder, err := bson.NewEncoder(valueWriter)
	if err != nil {
		return xerrors.Errorf("error creating bson encoder: %w", err)
	}

	return bsonEncoder.Encode(content)
}

func (encoder *bsonEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	raw, err := ioutil.ReadAll(reader)
	if err != nil {
		return xerrors.Errorf("error reading bson: %w", err)
	}

	bsonDecoder, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(raw))
	if err != nil {
		return xerrors.Errorf("error creating bson decoder: %w", err)
	}

	switch contentReceiver.(type) {
	case *interface{}, *map[string]interface{}:
	default:
		// Typed receivers use the driver's own struct mapping.
		return bsonDecoder.Decode(contentReceiver)
	}

	bsonDecoder.DefaultDocumentM()
	document := primitive.M{}
	if err := bsonDecoder.Decode(&document); err != nil {
		return err
	}

	return assignDecoded(contentReceiver, normalizeBSON(document).(map[string]interface{}))
}

// normalizeBSON replaces driver specific types with the plain values of a Body.
func normalizeBSON(value interface{}) interface{} {
	switch typed := value.(type) {
	case primitive.M:
		mapping := make(map[string]interface{}, len(typed))
		for key, item := range typed {
			mapping[key] = normalizeBSON(item)
		}
		return mapping
	case map[string]interface{}:
		mapping := make(map[string]interface{}, len(typed))
		for key, item := range typed {
			mapping[key] = normalizeBSON(item)
		}
		return mapping
	case primitive.D:
		mapping := make(map[string]interface{}, len(typed))
		for _, element := range typed {
			mapping[element.Key] = normalizeBSON(element.Value)
		}
		return mapping
	case primitive.A:
		sequence := make([]interface{}, len(typed))
		for index, item := range typed {
			sequence[index] = normalizeBSON(item)
		}
		return sequence
	case []interface{}:
		sequence := make([]interface{}, len(typed))
		for index, item := range typed {
			sequence[index] = normalizeBSON(item)
		}
		return sequence
	case int32:
		return int64(typed)
	case primitive.ObjectID:
		return typed.Hex()
	case primitive.DateTime:
		return typed.Time().UTC().Format(time.RFC3339Nano)
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return value
	}
}
