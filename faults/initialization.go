package faults

// The request body could not be parsed as JSON, XML or BSON.
var MalformedBody = NewKind("MalformedBody")

// No action of the controller matches the request.
var UnknownAction = NewKind("UnknownAction")

// A response body could not be rendered. This kind is a server defect and SHOULD NOT
// be returned by business logic.
var SerializationError = NewKind("SerializationError")

// Request Content-Type has no registered decoder.
var UnsupportedMediaType = NewKind("UnsupportedMediaType")

// Business error kinds.
var (
	UnprocessableEntity     = NewKind("UnprocessableEntity")
	Forbidden               = NewKind("Forbidden")
	InvalidModelError       = NewKind("InvalidModelError")
	BadRequest              = NewKind("BadRequest")
	CannotResizeToSameSize  = NewKind("CannotResizeToSameSize")
	BadValue                = NewKind("BadValue")
	DatabaseAlreadyExists   = NewKind("DatabaseAlreadyExists")
	UserAlreadyExists       = NewKind("UserAlreadyExists")
	NotFound                = NewKind("NotFound")
	ComputeInstanceNotFound = NewKind("ComputeInstanceNotFound")
	ModelNotFoundError      = NewKind("ModelNotFoundError")
	UserNotFound            = NewKind("UserNotFound")
	DatabaseNotFound        = NewKind("DatabaseNotFound")
	QuotaResourceUnknown    = NewKind("QuotaResourceUnknown")
	OverLimit               = NewKind("OverLimit")
	QuotaExceeded           = NewKind("QuotaExceeded")
	VolumeQuotaExceeded     = NewKind("VolumeQuotaExceeded")
	VolumeCreationFailure   = NewKind("VolumeCreationFailure")
	UpdateGuestError        = NewKind("UpdateGuestError")
)

// List of default Kind definitions.
var KindList = []*Kind{
	MalformedBody,
	UnknownAction,
	SerializationError,
	UnsupportedMediaType,
	UnprocessableEntity,
	Forbidden,
	InvalidModelError,
	BadRequest,
	CannotResizeToSameSize,
	BadValue,
	DatabaseAlreadyExists,
	UserAlreadyExists,
	NotFound,
	ComputeInstanceNotFound,
	ModelNotFoundError,
	UserNotFound,
	DatabaseNotFound,
	QuotaResourceUnknown,
	OverLimit,
	QuotaExceeded,
	VolumeQuotaExceeded,
	VolumeCreationFailure,
	UpdateGuestError,
}

/*
DefaultStatusTable is the status table every controller starts from. Framework kinds
(MalformedBody, UnknownAction, UnsupportedMediaType) are registered here so that they
keep their status whatever a controller adds.

SerializationError is not registered: it never reaches the exception map.
*/
func DefaultStatusTable() StatusTable {
	return StatusTable{
		HTTPUnprocessableEntity: {
			UnprocessableEntity,
		},
		HTTPUnauthorized: {
			Forbidden,
		},
		HTTPBadRequest: {
			MalformedBody,
			InvalidModelError,
			BadRequest,
			CannotResizeToSameSize,
			BadValue,
			DatabaseAlreadyExists,
			UserAlreadyExists,
		},
		HTTPNotFound: {
			UnknownAction,
			NotFound,
			ComputeInstanceNotFound,
			ModelNotFoundError,
			UserNotFound,
			DatabaseNotFound,
			QuotaResourceUnknown,
		},
		HTTPConflict: {},
		HTTPRequestEntityTooLarge: {
			OverLimit,
			QuotaExceeded,
			VolumeQuotaExceeded,
		},
		HTTPUnsupportedMediaType: {
			UnsupportedMediaType,
		},
		HTTPServerError: {
			VolumeCreationFailure,
			UpdateGuestError,
		},
	}
}
