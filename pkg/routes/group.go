package routes

import (
	"net/http"

	"github.com/JaimeStill/helix/pkg/openapi"
)

// Group organizes routes under a common prefix. Middleware wraps every route
// in the group and its children, outermost first; child middleware runs
// inside the parent's.
type Group struct {
	Prefix     string
	Routes     []Route
	Children   []Group
	Middleware []func(http.Handler) http.Handler
	Schemas    map[string]*openapi.Schema
}

// Register adds all routes from the given groups to the mux beneath basePath.
func Register(mux *http.ServeMux, basePath string, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, basePath, nil, group)
	}
}

func registerGroup(
	mux *http.ServeMux,
	parentPrefix string,
	parentMw []func(http.Handler) http.Handler,
	group Group,
) {
	fullPrefix := parentPrefix + group.Prefix
	stack := append(append([]func(http.Handler) http.Handler{}, parentMw...), group.Middleware...)

	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.Handle(pattern, wrap(route.Handler, stack))
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, stack, child)
	}
}

func wrap(h http.Handler, stack []func(http.Handler) http.Handler) http.Handler {
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

// Document adds every route carrying an OpenAPI operation to spec, along with
// each group's component schemas.
func Document(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, group := range groups {
		documentGroup(spec, basePath, group)
	}
}

func documentGroup(spec *openapi.Spec, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix

	if len(group.Schemas) > 0 {
		spec.Components.AddSchemas(group.Schemas)
	}
	for _, route := range group.Routes {
		if route.OpenAPI != nil {
			spec.AddOperation(fullPrefix+route.Pattern, route.Method, route.OpenAPI)
		}
	}
	for _, child := range group.Children {
		documentGroup(spec, fullPrefix, child)
	}
}
