/*
Package api is the HTTP boundary of the server. It negotiates the representation of
every request, turns request bodies into encoding.Body values and action results back
into bytes, and converts failures into fault documents.

Pipeline

A server is assembled from a VersionedURLMap mounting one handler per API version.
Version handlers are wrapped in FaultWrapper and ContextMiddleware, and route to the
actions of Resource values built around Controller implementations:

	resource, err := api.NewResource(instanceController, cfg)

	router := api.NewRouter()
	router.Get("/{tenant_id}/instances/{id}", resource.Action("show").ServeHTTP)

	v1 := api.FaultWrapper(cfg)(api.ContextMiddleware(cfg)(router))
	urlMap, err := api.NewVersionedURLMap(cfg, map[string]http.Handler{"/v1.0": v1})

Faults

Every failure reaches the client as a single document holding the fault name, its
numeric code and a message, in the content type the client negotiated.
*/
package api
