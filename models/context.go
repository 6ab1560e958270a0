package models

import (
	"context"

	uuid "github.com/satori/go.uuid"
)

type contextKey struct{}

// RequestContext holds the caller identity and paging parameters of a request.
type RequestContext struct {
	// Value of the X-Auth-Token header. Never empty.
	AuthToken string
	// Value of the X-Tenant-Id header.
	Tenant string
	// Value of the X-User header.
	User string
	// Whether one of the X-Role roles is an admin role.
	IsAdmin bool
	// Paging parameters from the query string.
	Paging *PagingReq
	// Unique ID for correlating log lines of the request.
	RequestID uuid.UUID
}

// Limit returns the raw limit query parameter, empty when absent.
func (requestContext *RequestContext) Limit() string {
	return requestContext.Paging.Limit
}

// Marker returns the raw marker query parameter, empty when absent.
func (requestContext *RequestContext) Marker() string {
	return requestContext.Paging.Marker
}

// WithRequestContext returns a copy of ctx carrying requestContext.
func WithRequestContext(
	ctx context.Context, requestContext *RequestContext,
) context.Context {
	return context.WithValue(ctx, contextKey{}, requestContext)
}

// RequestContextFrom returns the request context attached to ctx. ok is false when
// none is attached.
func RequestContextFrom(ctx context.Context) (requestContext *RequestContext, ok bool) {
	requestContext, ok = ctx.Value(contextKey{}).(*RequestContext)
	return requestContext, ok
}
