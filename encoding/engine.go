package encoding

import (
	"bytes"
	"io"
	"io/ioutil"
	"reflect"

	"github.com/ugorji/go/codec"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/mimetype"
)

// Type helpers
type encoderMapping map[mimetype.MimeType]Encoder
type decoderMapping map[mimetype.MimeType]Decoder

// Interface for defining a content encoder.
type Encoder interface {
	// To be implemented by content encoder. Implementation is expected to write content
	// to writer. The content engine which is calling Encode is made available through
	// engine, allowing encoders to access engine-level settings.
	Encode(engine ContentEngine, writer io.Writer, content interface{}) error
}

// Interface for defining a content decoder.
type Decoder interface {
	// To be implemented by content decoder. Implementation is expected to read content
	// from reader and unmarshal it into contentReceiver.
	Decode(engine ContentEngine, reader io.Reader, contentReceiver interface{}) error
}

/*
ContentEngine details the contract for a content encoding engine. The goal of the
content engine is to allow a common decoding and encoding methodology for any
supported mimetype, so that the response format a client negotiated and the request
format it declared can be handled through the same interface.
*/
type ContentEngine interface {
	// Returns true if the engine has a registered encoder for the mimetype.
	HandlesEncode(mimeType mimetype.MimeType) bool

	// Returns true if the engine has a registered decoder for the mimetype.
	HandlesDecode(mimeType mimetype.MimeType) bool

	// Returns true if the engine has a registered encoder AND decoder for the mimetype.
	Handles(mimeType mimetype.MimeType) bool

	// Schema used by the XML encoder and decoder.
	XMLSchema() *XMLSchema

	// Decode mimeType content from reader using the decoder for mimeType. Decoded
	// content is stored in contentReceiver.
	Decode(
		mimeType mimetype.MimeType,
		contentReceiver interface{},
		reader io.Reader,
	) error

	// Encode content as mimetype using registered mimeType to writer.
	Encode(
		mimeType mimetype.MimeType,
		content interface{},
		writer io.Writer,
	) error
}

/*
Engine is the default implementation of the ContentEngine interface.

Instantiation

Use NewContentEngine() to create a new Engine. Encoders and decoders are registered
before the engine is shared; afterwards the engine is read-only and safe for
concurrent use.

Default Mimetypes

• application/json: encoded and decoded with the codec library
(https://godoc.org/github.com/ugorji/go/codec). Map keys are written in sorted order,
objects decode to map[string]interface{} and integers to int64.

• application/xml: encoded and decoded through an etree document shaped by the
engine's XMLSchema.

• application/bson: encoded and decoded through the official bson driver. Decoded
documents are normalized to plain maps and slices.

Panics

If an encoder or decoder panics during execution, that panic is caught and returned as
an error.
*/
type Engine struct {
	// MimeType:Encoder mapping
	encoders encoderMapping
	// MimeType:Decoder mapping
	decoders decoderMapping

	// JSON handle for default JSON encoder
	jsonHandle *codec.JsonHandle
	// Schema for the default XML encoder / decoder
	xmlSchema *XMLSchema
}

// Register an encoder for a given mimeType
func (engine *Engine) SetEncoder(mimeType mimetype.MimeType, encoder Encoder) {
	engine.encoders[mimeType] = encoder
}

// Register a decoder for a given mimeType
func (engine *Engine) SetDecoder(mimeType mimetype.MimeType, decoder Decoder) {
	engine.decoders[mimeType] = decoder
}

// Whether the Engine has a registered encoder for mimeType.
func (engine *Engine) HandlesEncode(mimeType mimetype.MimeType) bool {
	_, ok := engine.encoders[mimeType]
	return ok
}

// Whether the Engine has a registered decoder for mimeType.
func (engine *Engine) HandlesDecode(mimeType mimetype.MimeType) bool {
	_, ok := engine.decoders[mimeType]
	return ok
}

// Whether the Engine has a registered encoder and decoder for mimeType.
func (engine *Engine) Handles(mimeType mimetype.MimeType) bool {
	return engine.HandlesEncode(mimeType) && engine.HandlesDecode(mimeType)
}

// Returns the codec handle used by the json encoder/decoder.
func (engine *Engine) JSONHandle() *codec.JsonHandle {
	return engine.jsonHandle
}

// Returns the schema used by the xml encoder/decoder.
func (engine *Engine) XMLSchema() *XMLSchema {
	return engine.xmlSchema
}

// Uses an encoder while catching panics to return as errors
func (engine *Engine) safeEncode(
	encoder Encoder, writer io.Writer, content interface{},
) (err error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			err = xerrors.Errorf("panic during encode: %v", recovered)
		}
	}()

	err = encoder.Encode(engine, writer, content)
	return err
}

// Uses a decoder while catching panics to return as errors
func (engine *Engine) safeDecode(
	decoder Decoder, reader io.Reader, contentReceiver interface{},
) (err error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			err = xerrors.Errorf("panic during decode: %v", recovered)
		}
	}()

	err = decoder.Decode(engine, reader, contentReceiver)
	return err
}

func (engine *Engine) Decode(
	mimeType mimetype.MimeType,
	contentReceiver interface{},
	reader io.Reader,
) error {
	// Close the reader if it's a closer.
	if readCloser, ok := reader.(io.ReadCloser); ok {
		defer func() {
			_ = readCloser.Close()
		}()
	}

	decoder, ok := engine.decoders[mimeType]
	if !ok {
		return xerrors.New("no decoder for " + string(mimeType))
	}

	err := engine.safeDecode(decoder, reader, contentReceiver)
	if err != nil {
		return xerrors.Errorf("decode err: %w", err)
	}

	return nil
}

func (engine *Engine) Encode(
	mimeType mimetype.MimeType,
	content interface{},
	writer io.Writer,
) error {
	encoder, ok := engine.encoders[mimeType]
	if !ok {
		return xerrors.New("no encoder for " + string(mimeType))
	}

	err := engine.safeEncode(encoder, writer, content)
	if err != nil {
		return xerrors.Errorf("encode err: %w", err)
	}
	return nil
}

/*
DecodeBody reads a request body into its normalized form. An empty body yields a nil
Body and no error.

Errors are *faults.Error values: UnsupportedMediaType when no decoder is registered for
mimeType, MalformedBody when the content cannot be parsed or is not an object.
*/
func DecodeBody(
	engine ContentEngine, mimeType mimetype.MimeType, reader io.Reader,
) (Body, error) {
	if !engine.HandlesDecode(mimeType) {
		return nil, faults.UnsupportedMediaType.New(
			"unsupported content type: "+string(mimeType), nil,
		)
	}

	raw, err := ioutil.ReadAll(reader)
	if err != nil {
		return nil, faults.MalformedBody.New("error reading request body", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var decoded interface{}
	if err := engine.Decode(mimeType, &decoded, bytes.NewReader(raw)); err != nil {
		var kindErr *faults.Error
		if xerrors.As(err, &kindErr) && kindErr.IsKind(faults.MalformedBody) {
			return nil, kindErr
		}
		return nil, faults.MalformedBody.New("malformed request body", err)
	}

	body, ok := asMapping(decoded)
	if !ok {
		return nil, faults.MalformedBody.New(
			"request body must be an object, got "+describe(decoded), nil,
		)
	}

	return body, nil
}

// EncodeBody renders content into a new buffer. Nothing is returned on failure, so a
// partially rendered body can never reach a client. Errors are SerializationError
// *faults.Error values.
func EncodeBody(
	engine ContentEngine, mimeType mimetype.MimeType, content interface{},
) (*bytes.Buffer, error) {
	buffer := new(bytes.Buffer)
	if err := engine.Encode(mimeType, content, buffer); err != nil {
		var kindErr *faults.Error
		if xerrors.As(err, &kindErr) && kindErr.IsKind(faults.SerializationError) {
			return nil, kindErr
		}
		return nil, faults.SerializationError.New(
			"error rendering "+string(mimeType)+" body", err,
		)
	}
	return buffer, nil
}

func describe(value interface{}) string {
	if value == nil {
		return "null"
	}
	return reflect.TypeOf(value).String()
}

// NewContentEngine returns an engine with the default JSON, XML and BSON encoders and
// decoders. A nil schema uses an empty one.
func NewContentEngine(schema *XMLSchema) *Engine {
	if schema == nil {
		schema = NewXMLSchema("", nil, nil)
	}

	engine := &Engine{
		encoders:   make(encoderMapping),
		decoders:   make(decoderMapping),
		jsonHandle: newJSONHandle(),
		xmlSchema:  schema,
	}

	// Add the encoders.
	engine.SetEncoder(mimetype.JSON, &jsonEncoder{})
	engine.SetEncoder(mimetype.XML, &xmlEncoder{})
	engine.SetEncoder(mimetype.BSON, &bsonEncoder{})

	// Add the default decoders.
	engine.SetDecoder(mimetype.JSON, &jsonEncoder{})
	engine.SetDecoder(mimetype.XML, &xmlEncoder{})
	engine.SetDecoder(mimetype.BSON, &bsonEncoder{})

	return engine
}
