package mimetype

import (
	"regexp"
	"strings"

	"github.com/munnerz/goautoneg"
)

// DefaultVendor is the vendor tree used for versioned media types when none is
// configured, as in "application/vnd.openstack.reddwarf+json;version=1".
const DefaultVendor = "vnd.openstack.reddwarf"

var urlVersionRe = regexp.MustCompile(`/v(\d+(?:\.\d+)?)`)

// URLVersion returns the version embedded in a request path such as "/v1.0/instances",
// or an empty string when the path carries none. Only the first occurrence counts.
func URLVersion(path string) string {
	match := urlVersionRe.FindStringSubmatch(path)
	if match == nil {
		return ""
	}
	return match[1]
}

/*
Negotiator picks the response mimetype of a request. A Negotiator is immutable once
created and may be shared between any number of concurrent requests.

Precedence

1. A ".json" or ".xml" path extension wins, whatever the Accept header says.

2. The Accept header is matched, honoring quality values, against the vendor JSON type,
the vendor XML type, "application/json" and "application/xml", in that order.

3. JSON.
*/
type Negotiator struct {
	vendor       string
	alternatives []string
	collapse     map[string]MimeType
	acceptRe     *regexp.Regexp
}

// NewNegotiator creates a negotiator for the given vendor tree. An empty vendor uses
// DefaultVendor.
func NewNegotiator(vendor string) *Negotiator {
	vendor = strings.ToLower(strings.TrimSpace(vendor))
	if vendor == "" {
		vendor = DefaultVendor
	}

	vendorJSON := "application/" + vendor + "+json"
	vendorXML := "application/" + vendor + "+xml"

	return &Negotiator{
		vendor:       vendor,
		alternatives: []string{vendorJSON, vendorXML, string(JSON), string(XML)},
		collapse: map[string]MimeType{
			vendorJSON:   JSON,
			vendorXML:    XML,
			string(JSON): JSON,
			string(XML):  XML,
		},
		acceptRe: regexp.MustCompile(
			`application/` + regexp.QuoteMeta(vendor) +
				`(\+[^;,]+?)?;\s*version=(\d+(?:\.\d+)?)`,
		),
	}
}

// Vendor returns the vendor tree of versioned media types.
func (negotiator *Negotiator) Vendor() string {
	return negotiator.vendor
}

// VendorType returns the versioned vendor media type for an object mimetype, such as
// "application/vnd.openstack.reddwarf+xml".
func (negotiator *Negotiator) VendorType(mimeType MimeType) string {
	return "application/" + negotiator.vendor + "+" + mimeType.Extension()
}

// BestMatch returns JSON or XML for the request path and Accept header.
func (negotiator *Negotiator) BestMatch(path string, accept string) MimeType {
	if dot := strings.LastIndex(path, "."); dot >= 0 {
		if fromExt := FromExtension(path[dot+1:]); fromExt != UNKNOWN {
			return fromExt
		}
	}

	match := negotiator.negotiate(strings.ToLower(accept))
	if mimeType, ok := negotiator.collapse[match]; ok {
		return mimeType
	}

	return JSON
}

// negotiate returns the first alternative accepted by the highest quality clause of
// accept. A q=0 clause naming a concrete type refuses it, also against wildcards.
func (negotiator *Negotiator) negotiate(accept string) string {
	clauses := goautoneg.ParseAccept(accept)

	refused := make(map[string]bool)
	for _, clause := range clauses {
		if clause.Q <= 0 && clause.SubType != "*" {
			refused[clause.Type+"/"+clause.SubType] = true
		}
	}

	for _, clause := range clauses {
		if clause.Q <= 0 {
			continue
		}
		for _, alternative := range negotiator.alternatives {
			if refused[alternative] {
				continue
			}
			split := strings.SplitN(alternative, "/", 2)
			switch {
			case clause.Type == "*" && clause.SubType == "*":
				return alternative
			case clause.Type == split[0] && (clause.SubType == "*" || clause.SubType == split[1]):
				return alternative
			}
		}
	}
	return ""
}

// AcceptVersion returns the version requested through a versioned vendor media type in
// the Accept header, or an empty string when there is none.
func (negotiator *Negotiator) AcceptVersion(accept string) string {
	match := negotiator.acceptRe.FindStringSubmatch(strings.ToLower(accept))
	if match == nil {
		return ""
	}
	return match[2]
}
