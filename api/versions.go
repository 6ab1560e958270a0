package api

import (
	"net/http"
	"strings"

	"github.com/illuscio-dev/apiwire-go/config"
	"github.com/illuscio-dev/apiwire-go/faults"
	"github.com/illuscio-dev/apiwire-go/models"
)

// VersionsController lists the API versions a server mounts.
type VersionsController struct {
	BaseController
	versions []config.VersionConfig
}

// NewVersionsController returns a controller describing versions.
func NewVersionsController(versions []config.VersionConfig) *VersionsController {
	return &VersionsController{versions: versions}
}

// Actions: "index" lists every version, "show" describes the version of the request
// path.
func (controller *VersionsController) Actions() map[string]ActionFunc {
	return map[string]ActionFunc{
		"index": controller.index,
		"show":  controller.show,
	}
}

func (controller *VersionsController) index(
	request *Request, args ActionArgs,
) (interface{}, error) {
	baseURL := requestBaseURL(request.Request)

	versions := make([]interface{}, 0, len(controller.versions))
	for _, version := range controller.versions {
		versions = append(versions, versionView(version, baseURL))
	}

	return models.NewResult(map[string]interface{}{"versions": versions}), nil
}

func (controller *VersionsController) show(
	request *Request, args ActionArgs,
) (interface{}, error) {
	urlVersion := request.URLVersion()
	for _, version := range controller.versions {
		if version.ID == "v"+urlVersion {
			view := versionView(version, requestBaseURL(request.Request))
			return models.NewResult(map[string]interface{}{"version": view}), nil
		}
	}
	return nil, faults.HTTPNotFound.New("version not found: v" + urlVersion)
}

func versionView(version config.VersionConfig, baseURL string) map[string]interface{} {
	return map[string]interface{}{
		"id":      version.ID,
		"status":  version.Status,
		"updated": version.Updated,
		"links": []interface{}{
			map[string]interface{}{
				"href": baseURL + version.Prefix() + "/",
				"rel":  "self",
			},
		},
	}
}

// requestBaseURL returns scheme://host of the request.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = strings.ToLower(forwarded)
	}
	return scheme + "://" + r.Host
}
