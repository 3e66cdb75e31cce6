// package server runs the localhost listener for the third-party login
// handoff. The backend finishes the provider handshake and redirects the
// browser here with the issued bearer token.
package server

import (
	"net/http"
)

// Middleware wraps an [http.Handler] with behavior shared across routes.
type Middleware func(http.Handler) http.Handler

// Handler is a callback endpoint together with the routes it answers on.
type Handler interface {
	http.Handler
	Routes() []string
}
