package http

// Route binds a path to a handler. A nil Methods list matches every method.
type Route struct {
	Methods []string
	Path    string
	Handler Handler
}

func (route *Route) allows(method []byte) bool {
	if route.Methods == nil {
		return true
	}
	for _, m := range route.Methods {
		if m == string(method) {
			return true
		}
	}
	return false
}
