package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/apiwire-go/config"
	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/logging"
	"github.com/illuscio-dev/apiwire-go/mimetype"
)

/*
VersionedURLMap dispatches requests to the application mounted for their API version.

A request whose path names a version, or that asks for no version at all, is routed by
path prefix. A request without a version in its path but with a version parameter in
its Accept header, as in "application/vnd.openstack.reddwarf+xml;version=1.0", is sent
to the application mounted at "/v<version>" with its path untouched. When no such
application exists the request is answered with a 406 fault.
*/
type VersionedURLMap struct {
	apps       map[string]http.Handler
	router     chi.Router
	negotiator *mimetype.Negotiator
}

// NewVersionedURLMap mounts each handler of apps at its key. Keys are path prefixes
// such as "/v1.0"; "/" receives every request no other prefix matches.
func NewVersionedURLMap(
	cfg *config.Config, apps map[string]http.Handler,
) (*VersionedURLMap, error) {
	if len(apps) == 0 {
		return nil, xerrors.New("no applications to mount")
	}

	negotiator := mimetype.NewNegotiator(cfg.MediaType.Vendor)
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept")
		WriteFault(
			w, negotiator.BestMatch(r.URL.Path, accept), faults.NewFault(faults.HTTPNotFound, ""),
		)
	})

	prefixes := make([]string, 0, len(apps))
	mounted := make(map[string]http.Handler, len(apps))
	for prefix, app := range apps {
		if app == nil {
			return nil, xerrors.Errorf("nil application for prefix %q", prefix)
		}
		prefix = "/" + strings.Trim(prefix, "/")
		if _, exists := mounted[prefix]; exists {
			return nil, xerrors.Errorf("prefix %q mounted twice", prefix)
		}
		mounted[prefix] = app
		prefixes = append(prefixes, prefix)
	}

	// Mount in a stable order.
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		router.Mount(prefix, mounted[prefix])
	}

	return &VersionedURLMap{apps: mounted, router: router, negotiator: negotiator}, nil
}

func (urlMap *VersionedURLMap) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")

	if mimetype.URLVersion(r.URL.Path) == "" {
		if acceptVersion := urlMap.negotiator.AcceptVersion(accept); acceptVersion != "" {
			urlMap.serveAcceptVersion(w, r, acceptVersion)
			return
		}
	}

	urlMap.router.ServeHTTP(w, r)
}

func (urlMap *VersionedURLMap) serveAcceptVersion(
	w http.ResponseWriter, r *http.Request, acceptVersion string,
) {
	app, ok := urlMap.apps["/v"+acceptVersion]
	if !ok {
		recordVersionRejection()
		logger := logging.WithComponent("urlmap")
		logger.Debug().
			Str(logging.FieldPath, r.URL.Path).
			Msgf("no application for accept version %q", acceptVersion)

		WriteFault(
			w,
			urlMap.negotiator.BestMatch(r.URL.Path, r.Header.Get("Accept")),
			faults.NewFault(faults.HTTPNotAcceptable, "version not supported"),
		)
		return
	}

	app.ServeHTTP(w, r)
}
