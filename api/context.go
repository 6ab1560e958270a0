package api

import (
	"net/http"
	"strings"

	uuid "github.com/satori/go.uuid"

	"github.com/illuscio-dev/apiwire-go/config"
	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/logging"
	"github.com/illuscio-dev/apiwire-go/mimetype"
	"github.com/illuscio-dev/apiwire-go/models"
)

// Identity headers read by ContextMiddleware.
const (
	AuthTokenHeader = "X-Auth-Token"
	TenantHeader    = "X-Tenant-Id"
	UserHeader      = "X-User"
	RoleHeader      = "X-Role"
)

/*
ContextMiddleware attaches a models.RequestContext and a request scoped logger to every
request.

The context holds the X-Auth-Token, X-Tenant-Id and X-User headers, whether any of the
comma separated X-Role roles is an admin role of cfg, the limit and marker query
parameters, and a fresh request ID. Requests without an auth token are answered with a
401 fault.
*/
func ContextMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	negotiator := mimetype.NewNegotiator(cfg.MediaType.Vendor)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authToken := strings.TrimSpace(r.Header.Get(AuthTokenHeader))
			if authToken == "" {
				WriteFault(
					w,
					negotiator.BestMatch(r.URL.Path, r.Header.Get("Accept")),
					faults.NewFault(faults.HTTPUnauthorized, "missing "+AuthTokenHeader+" header"),
				)
				return
			}

			requestContext := &models.RequestContext{
				AuthToken: authToken,
				Tenant:    r.Header.Get(TenantHeader),
				User:      r.Header.Get(UserHeader),
				IsAdmin:   hasAdminRole(cfg, r.Header.Get(RoleHeader)),
				Paging:    models.PagingReqFromParams(r.URL.Query()),
				RequestID: uuid.NewV4(),
			}

			logger := logging.FromContext(r.Context()).With().
				Str(logging.FieldRequestID, requestContext.RequestID.String()).
				Str(logging.FieldTenant, requestContext.Tenant).
				Str(logging.FieldMethod, r.Method).
				Str(logging.FieldPath, r.URL.Path).
				Logger()

			ctx := logging.ContextWithLogger(r.Context(), logger)
			ctx = models.WithRequestContext(ctx, requestContext)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasAdminRole(cfg *config.Config, roles string) bool {
	for _, role := range strings.Split(roles, ",") {
		if cfg.IsAdminRole(role) {
			return true
		}
	}
	return false
}
