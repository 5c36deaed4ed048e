package http

import (
	"slices"
	"strings"
)

type Router struct {
	Routes     []Route
	Middleware []Middleware
}

func NewRouter() Router {
	return Router{
		Routes: make([]Route, 0),
	}
}

// Handle registers handler for path regardless of the request method.
func (router *Router) Handle(path string, handler Handler, middleware ...Middleware) {
	router.Any(nil, path, handler, middleware...)
}

func (router *Router) GET(path string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodGet}, path, handler, middleware...)
}

func (router *Router) HEAD(path string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodHead}, path, handler, middleware...)
}

func (router *Router) POST(path string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodPost}, path, handler, middleware...)
}

func (router *Router) PUT(path string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodPut}, path, handler, middleware...)
}

func (router *Router) PATCH(path string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodPatch}, path, handler, middleware...)
}

func (router *Router) DELETE(path string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodDelete}, path, handler, middleware...)
}

func (router *Router) OPTIONS(path string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodOptions}, path, handler, middleware...)
}

func (router *Router) Any(methods []string, path string, handler Handler, middleware ...Middleware) {
	for _, middleware := range middleware {
		handler = middleware(handler)
	}

	router.Routes = append(router.Routes, Route{
		Methods: methods,
		Path:    path,
		Handler: handler,
	})
}

func (router *Router) Group(path string, groupFunc func(group *Router), middlewareList ...Middleware) {
	group := NewRouter()

	groupFunc(&group)

	for _, route := range group.Routes {
		route.Path = path + route.Path
		for _, middleware := range middlewareList {
			route.Handler = middleware(route.Handler)
		}

		router.Routes = append(router.Routes, route)
	}
}

// Use adds middleware wrapping every request, matched or not.
func (router *Router) Use(middleware ...Middleware) {
	router.Middleware = append(router.Middleware, middleware...)
}

// Handler returns the dispatching handler. Paths are matched exactly against
// the request target without its query string. A path registered only for
// other methods answers 405 with an Allow header; an unknown path answers
// with NotFoundHandler.
func (router *Router) Handler() Handler {
	routes := slices.Clone(router.Routes)

	var handler Handler = func(ctx *RequestCtx) {
		path := ctx.Request.Path()

		var allowed []string
		for i := range routes {
			route := &routes[i]
			if route.Path != string(path) {
				continue
			}
			if route.allows(ctx.Request.Method) {
				route.Handler(ctx)
				return
			}
			allowed = append(allowed, route.Methods...)
		}

		if allowed != nil {
			ctx.Response.SetHeader("Allow", strings.Join(allowed, ", "))
			ctx.Response.WithStatus(StatusMethodNotAllowed).WithText(StatusText(StatusMethodNotAllowed))
			return
		}

		NotFoundHandler(ctx)
	}

	for i := len(router.Middleware) - 1; i >= 0; i-- {
		handler = router.Middleware[i](handler)
	}

	return handler
}
