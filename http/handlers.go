package http

const (
	helloBody    = "Hello, World!"
	healthBody   = "OK"
	notFoundBody = "Not Found"
)

func HelloHandler(ctx *RequestCtx) {
	ctx.Response.WithStatus(StatusOK).WithText(helloBody)
}

// HealthHandler answers liveness probes.
func HealthHandler(ctx *RequestCtx) {
	ctx.Response.WithStatus(StatusOK).WithText(healthBody)
}

var NotFoundHandler Handler = func(ctx *RequestCtx) {
	ctx.Response.WithStatus(StatusNotFound).WithText(notFoundBody)
}

// NewDefaultRouter returns the stock routing table: "/" and "/health".
func NewDefaultRouter() Router {
	router := NewRouter()
	router.Handle("/", HelloHandler)
	router.Handle("/health", HealthHandler)
	return router
}
