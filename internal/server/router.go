package server

import "net/http"

// LoopbackRouter serves the short-lived localhost listener that catches the
// backend's login redirect. The browser arrives with a GET; no other method
// is expected, so every registered route rejects the rest.
type LoopbackRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewLoopbackRouter creates an empty [LoopbackRouter].
func NewLoopbackRouter() *LoopbackRouter {
	return &LoopbackRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
	}
}

// Use appends [Middleware] applied to every registered handler. The last
// middleware added runs closest to the handler.
func (r *LoopbackRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handler registers every route a [Handler] serves.
func (r *LoopbackRouter) Handler(handler Handler) {
	wrapped := getOnly(r.apply(handler))

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *LoopbackRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *LoopbackRouter) apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}

func getOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// NoStore forbids caching of the callback exchange. The issued token rides
// the redirect's query string and must never land in a cache.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, req)
	})
}
