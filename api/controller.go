package api

import (
	"net/url"

	"github.com/illuscio-dev/apiwire-go/encoding"
	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/models"
)

// BaseController supplies the default exception table and parameter helpers. Embed it
// in controllers and implement Actions.
type BaseController struct {
	// Fields dropped by ExtractRequiredParams.
	ExcludeAttrs []string
}

// ExceptionTable returns faults.DefaultStatusTable. Controllers registering their own
// kinds merge into it:
//
//	return controller.BaseController.ExceptionTable().Merge(faults.StatusTable{
//		faults.HTTPNotFound: {BackupNotFound},
//	})
func (controller *BaseController) ExceptionTable() faults.StatusTable {
	return faults.DefaultStatusTable()
}

// ExtractLimits returns the limit and marker query parameters that were passed.
func (controller *BaseController) ExtractLimits(params url.Values) map[string]string {
	return models.PagingReqFromParams(params).Map()
}

// ExtractRequiredParams returns a copy of the modelName object of body without the
// ExcludeAttrs fields. A missing or non-object model yields an empty map.
func (controller *BaseController) ExtractRequiredParams(
	body encoding.Body, modelName string,
) map[string]interface{} {
	model, _ := body[modelName].(map[string]interface{})

	params := make(map[string]interface{}, len(model))
	for key, value := range model {
		params[key] = value
	}
	for _, excluded := range controller.ExcludeAttrs {
		delete(params, excluded)
	}
	return params
}
