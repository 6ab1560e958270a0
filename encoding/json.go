package encoding

import (
	"bytes"
	"io"
	"io/ioutil"
	"reflect"

	"github.com/ugorji/go/codec"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/apiwire-go/faults"
)

func newJSONHandle() *codec.JsonHandle {
	jsonHandle := &codec.JsonHandle{}
	// Sorted keys keep rendered bodies stable between requests.
	jsonHandle.Canonical = true
	jsonHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))
	jsonHandle.SignedInteger = true
	return jsonHandle
}

// default JSON encoder for Engine.
type jsonEncoder struct{}

func (encoder *jsonEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	jsonEncoder := codec.NewEncoder(writer, engine.(*Engine).jsonHandle)
	return jsonEncoder.Encode(content)
}

func (encoder *jsonEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	raw, err := ioutil.ReadAll(reader)
	if err != nil {
		return xerrors.Errorf("error reading json: %w", err)
	}

	jsonDecoder := codec.NewDecoderBytes(raw, engine.(*Engine).jsonHandle)
	if err := jsonDecoder.Decode(contentReceiver); err != nil {
		return err
	}

	// The codec stops after the first value; anything but whitespace after it is
	// invalid syntax.
	consumed := jsonDecoder.NumBytesRead()
	if consumed < len(raw) && len(bytes.TrimSpace(raw[consumed:])) > 0 {
		return faults.MalformedBody.Newf(
			"unexpected content after json value at offset %d", consumed,
		)
	}
	return nil
}
