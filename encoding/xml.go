package encoding

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/apiwire-go/faults"
)

// XMLRenderer is implemented by values which build their own XML element. The encoder
// delegates to it instead of walking the value.
type XMLRenderer interface {
	ToXML(tag string, schema *XMLSchema) (*etree.Element, error)
}

// linksKey is the only key allowed next to the root key of an XML body.
const linksKey = "links"

var interTagSpace = regexp.MustCompile(`>\s+<`)

// default XML encoder for Engine.
type xmlEncoder struct{}

func (encoder *xmlEncoder) Encode(
	engine ContentEngine, writer io.Writer, content interface{},
) error {
	schema := engine.XMLSchema()

	mapping, ok := asMapping(content)
	if !ok {
		return faults.SerializationError.New(
			"xml content must be a mapping, got "+describe(content), nil,
		)
	}

	rootKey, hasLinks, err := xmlRootKey(mapping)
	if err != nil {
		return err
	}

	if err := checkXMLName(rootKey); err != nil {
		return err
	}
	root := etree.NewElement(rootKey)
	if schema.Namespace() != "" {
		root.CreateAttr("xmlns", schema.Namespace())
	}
	if err := fillElement(schema, root, mapping[rootKey]); err != nil {
		return err
	}

	if hasLinks {
		links, err := buildElement(schema, linksKey, mapping[linksKey])
		if err != nil {
			return err
		}
		root.AddChild(links)
	}

	document := etree.NewDocument()
	document.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	document.SetRoot(root)

	_, err = document.WriteTo(writer)
	return err
}

// xmlRootKey returns the single root key of mapping and whether a links key sits next
// to it.
func xmlRootKey(mapping map[string]interface{}) (rootKey string, hasLinks bool, err error) {
	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch {
		case key == linksKey:
			hasLinks = true
		case rootKey == "":
			rootKey = key
		default:
			return "", false, faults.SerializationError.Newf(
				"multiple xml root keys found: %v", keys,
			)
		}
	}

	if rootKey == "" {
		return "", false, faults.SerializationError.Newf(
			"missing xml root key in keys: %v", keys,
		)
	}
	return rootKey, hasLinks, nil
}

func buildElement(schema *XMLSchema, tag string, value interface{}) (*etree.Element, error) {
	if err := checkXMLName(tag); err != nil {
		return nil, err
	}

	if renderer, ok := value.(XMLRenderer); ok {
		element, err := renderer.ToXML(tag, schema)
		if err != nil {
			return nil, faults.SerializationError.New(
				"custom xml rendering failed for "+tag, err,
			)
		}
		return element, nil
	}

	element := etree.NewElement(tag)
	if err := fillElement(schema, element, value); err != nil {
		return nil, err
	}
	return element, nil
}

func fillElement(schema *XMLSchema, element *etree.Element, value interface{}) error {
	if value == nil {
		return nil
	}

	if text, ok := scalarText(value); ok {
		if err := checkXMLText(element.Tag, text); err != nil {
			return err
		}
		element.SetText(text)
		return nil
	}

	if mapping, ok := asMapping(value); ok {
		keys := make([]string, 0, len(mapping))
		for key := range mapping {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			field := mapping[key]
			if schema.IsAttribute(element.Tag, key) {
				if text, ok := scalarText(field); ok {
					if err := checkXMLName(key); err != nil {
						return err
					}
					if err := checkXMLText(element.Tag+"@"+key, text); err != nil {
						return err
					}
					element.CreateAttr(key, text)
					continue
				}
			}

			child, err := buildElement(schema, key, field)
			if err != nil {
				return err
			}
			element.AddChild(child)
		}
		return nil
	}

	if sequence, ok := asSequence(value); ok {
		singular := schema.Singular(element.Tag)
		for _, item := range sequence {
			child, err := buildElement(schema, singular, item)
			if err != nil {
				return err
			}
			element.AddChild(child)
		}
		return nil
	}

	return faults.SerializationError.New(
		"cannot render "+describe(value)+" as xml element "+element.Tag, nil,
	)
}

// checkXMLName returns a SerializationError unless name is a valid XML element or
// attribute name.
func checkXMLName(name string) error {
	for index, char := range name {
		valid := unicode.IsLetter(char) || char == '_' || char == ':'
		if index > 0 {
			valid = valid || unicode.IsDigit(char) || char == '-' || char == '.' ||
				unicode.Is(unicode.Mn, char)
		}
		if !valid {
			return faults.SerializationError.Newf("invalid xml name %q", name)
		}
	}
	if name == "" {
		return faults.SerializationError.New("empty xml name", nil)
	}
	return nil
}

// checkXMLText returns a SerializationError when text holds characters XML 1.0 cannot
// carry: control characters other than tab, newline and carriage return, surrogates,
// U+FFFE, U+FFFF and invalid UTF-8.
func checkXMLText(location string, text string) error {
	for offset, char := range text {
		valid := char == '\t' || char == '\n' || char == '\r' ||
			(char >= 0x20 && char <= 0xD7FF) ||
			(char >= 0xE000 && char <= 0xFFFD) ||
			(char >= 0x10000 && char <= unicode.MaxRune)
		if char == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[offset:])
			valid = size > 1
		}
		if !valid {
			return faults.SerializationError.Newf(
				"character %U at offset %d of %s is not allowed in xml", char, offset, location,
			)
		}
	}
	return nil
}

// scalarText returns the text form of a scalar value. ok is false for nil, mappings,
// sequences and structs.
func scalarText(value interface{}) (text string, ok bool) {
	switch typed := value.(type) {
	case nil:
		return "", false
	case string:
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	case time.Time:
		return typed.Format(time.RFC3339), true
	case fmt.Stringer:
		return typed.String(), true
	}

	switch reflect.TypeOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String, reflect.Bool:
		return fmt.Sprint(value), true
	}
	return "", false
}

func (encoder *xmlEncoder) Decode(
	engine ContentEngine, reader io.Reader, contentReceiver interface{},
) error {
	raw, err := ioutil.ReadAll(reader)
	if err != nil {
		return xerrors.Errorf("error reading xml: %w", err)
	}
	// Whitespace between tags would otherwise show up as text children.
	raw = interTagSpace.ReplaceAll(bytes.TrimSpace(raw), []byte("><"))

	document := etree.NewDocument()
	if err := document.ReadFromBytes(raw); err != nil {
		return faults.MalformedBody.New("malformed xml body", err)
	}

	root := document.Root()
	if root == nil {
		return faults.MalformedBody.New("xml body has no root element", nil)
	}

	value, err := elementValue(engine.XMLSchema(), root)
	if err != nil {
		return err
	}

	return assignDecoded(contentReceiver, map[string]interface{}{root.Tag: value})
}

/*
elementValue converts an element into its normalized value:

• Registered collections become a list of their children's values.

• Elements without child elements become their text when it is not blank, or when
they carry no attributes either. Attributes next to text are dropped.

• Everything else becomes a mapping of attributes and child elements. A child tag
appearing twice is a MalformedBody error.

Namespace prefixes are dropped from tags and attribute names, namespace declarations
are skipped.
*/
func elementValue(schema *XMLSchema, element *etree.Element) (interface{}, error) {
	children := element.ChildElements()

	if schema.IsPlural(element.Tag) {
		items := make([]interface{}, 0, len(children))
		for _, child := range children {
			item, err := elementValue(schema, child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}

	attributes := make([]etree.Attr, 0, len(element.Attr))
	for _, attr := range element.Attr {
		if attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns") {
			continue
		}
		attributes = append(attributes, attr)
	}

	if len(children) == 0 {
		text := element.Text()
		if len(attributes) == 0 || strings.TrimSpace(text) != "" {
			return text, nil
		}
	}

	mapping := make(map[string]interface{}, len(attributes)+len(children))
	for _, attr := range attributes {
		mapping[attr.Key] = attr.Value
	}
	for _, child := range children {
		if _, exists := mapping[child.Tag]; exists {
			return nil, faults.MalformedBody.Newf(
				"repeated element %q in %q", child.Tag, element.Tag,
			)
		}
		value, err := elementValue(schema, child)
		if err != nil {
			return nil, err
		}
		mapping[child.Tag] = value
	}
	return mapping, nil
}

// assignDecoded stores a decoded document in the receivers supported by the builtin
// decoders.
func assignDecoded(contentReceiver interface{}, decoded map[string]interface{}) error {
	switch receiver := contentReceiver.(type) {
	case *interface{}:
		*receiver = decoded
	case *map[string]interface{}:
		*receiver = decoded
	default:
		return xerrors.Errorf("cannot decode document into %T", contentReceiver)
	}
	return nil
}
