package encoding

import (
	"strings"
)

/*
XMLSchema describes the shape of XML documents for the XML encoder and decoder.

Plurals maps a collection tag to the tag of its items. Collection tags decode to lists;
an empty item tag is derived from the collection tag by dropping its trailing "s", or
"item" when it has none.

Attributes maps an element tag to the fields that render as XML attributes of that
element instead of child elements.

A schema is built once with NewXMLSchema and never changes afterwards, so it can be
shared by any number of concurrent requests.
*/
type XMLSchema struct {
	namespace  string
	plurals    map[string]string
	attributes map[string]map[string]bool
}

// Namespace is written as the xmlns attribute of rendered root elements. Empty for no
// namespace.
func (schema *XMLSchema) Namespace() string {
	return schema.namespace
}

// IsPlural returns true if tag is a registered collection.
func (schema *XMLSchema) IsPlural(tag string) bool {
	_, ok := schema.plurals[tag]
	return ok
}

// Singular returns the item tag used when rendering a sequence under tag.
func (schema *XMLSchema) Singular(tag string) string {
	if singular := schema.plurals[tag]; singular != "" {
		return singular
	}
	if strings.HasSuffix(tag, "s") && len(tag) > 1 {
		return strings.TrimSuffix(tag, "s")
	}
	return "item"
}

// IsAttribute returns true if field renders as an attribute of element.
func (schema *XMLSchema) IsAttribute(element string, field string) bool {
	return schema.attributes[element][field]
}

// NewXMLSchema copies the passed tables into a new schema. Nil tables are treated as
// empty.
func NewXMLSchema(
	namespace string, plurals map[string]string, attributes map[string][]string,
) *XMLSchema {
	schema := &XMLSchema{
		namespace:  namespace,
		plurals:    make(map[string]string, len(plurals)),
		attributes: make(map[string]map[string]bool, len(attributes)),
	}

	for tag, singular := range plurals {
		schema.plurals[tag] = singular
	}

	for element, fields := range attributes {
		fieldSet := make(map[string]bool, len(fields))
		for _, field := range fields {
			fieldSet[field] = true
		}
		schema.attributes[element] = fieldSet
	}

	return schema
}

// DefaultNamespace is the XML namespace of the database API.
const DefaultNamespace = "http://docs.openstack.org/database/api/v1.0"

// DefaultPlurals returns the collection tags of the database API. Item tags are
// derived.
func DefaultPlurals() map[string]string {
	return map[string]string{
		"databases": "",
		"users":     "",
		"links":     "",
		"instances": "",
		"flavors":   "",
		"versions":  "",
		"hosts":     "",
		"devices":   "",
		"accounts":  "",
	}
}

// DefaultAttributes returns the per-element attribute fields of the database API
// entities.
func DefaultAttributes() map[string][]string {
	return map[string][]string{
		"instance": {
			"status", "hostname", "id", "name", "created", "updated", "host",
			"server_id", "local_id", "task_description", "deleted", "deleted_at",
			"tenant_id",
		},
		"volume":       {"size", "used", "id"},
		"flavor":       {"id", "ram", "name"},
		"link":         {"href", "rel", "type"},
		"database":     {"name"},
		"user":         {"name", "password"},
		"account":      {"id", "num_instances"},
		"host":         {"instanceCount", "name", "usedRAM", "totalRAM", "percentUsed"},
		"capacity":     {"available", "total"},
		"provision":    {"available", "total", "percent"},
		"device":       {"used", "name", "type"},
		"quotas":       {"instances", "volumes"},
		"guest_status": {"state_description"},
		"diagnostics": {
			"vmHwm", "vmPeak", "vmSize", "threads", "version", "vmRss", "fdSize",
		},
		"root_history": {"enabled", "id", "user"},
		"version":      {"id", "status", "updated"},
	}
}

// DefaultXMLSchema returns a schema built from the default namespace and tables.
func DefaultXMLSchema() *XMLSchema {
	return NewXMLSchema(DefaultNamespace, DefaultPlurals(), DefaultAttributes())
}
