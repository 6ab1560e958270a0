package models

import (
	"strconv"

	"github.com/illuscio-dev/apiwire-go/faults"
)

type valueSetter interface {
	Set(key string, value string)
}

type valueFetcher interface {
	Get(key string) string
}

const (
	limitParam  = "limit"
	markerParam = "marker"
)

// Paging parameters for request. Values are kept verbatim; an empty field was not
// passed.
type PagingReq struct {
	// Maximum item count to return.
	Limit string
	// ID of the last item of the previous page.
	Marker string
}

// Dumps paging information to request URL params.
func (pagingReq *PagingReq) ToParams(params valueSetter) {
	// Only send back fields that were passed.
	if pagingReq.Limit != "" {
		params.Set(limitParam, pagingReq.Limit)
	}
	if pagingReq.Marker != "" {
		params.Set(markerParam, pagingReq.Marker)
	}
}

// Map returns the passed paging parameters keyed by their query parameter name.
func (pagingReq *PagingReq) Map() map[string]string {
	limits := make(map[string]string, 2)
	if pagingReq.Limit != "" {
		limits[limitParam] = pagingReq.Limit
	}
	if pagingReq.Marker != "" {
		limits[markerParam] = pagingReq.Marker
	}
	return limits
}

// LimitInt parses the limit, returning defaultLimit when it was not passed. A limit
// which is not a positive integer is a BadValue error.
func (pagingReq *PagingReq) LimitInt(defaultLimit int) (int, error) {
	if pagingReq.Limit == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(pagingReq.Limit)
	if err != nil || limit < 1 {
		return 0, faults.BadValue.New(
			limitParam+" must be a positive integer, got "+strconv.Quote(pagingReq.Limit),
			err,
		)
	}
	return limit, nil
}

// PagingReqFromParams copies the limit and marker parameters verbatim.
func PagingReqFromParams(params valueFetcher) *PagingReq {
	return &PagingReq{
		Limit:  params.Get(limitParam),
		Marker: params.Get(markerParam),
	}
}
