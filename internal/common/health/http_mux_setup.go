package health

import (
	"net/http"
)

// SetupHttpMux registers the health endpoint next to whatever else the mux
// serves, typically the prometheus handler.
func SetupHttpMux(mux *http.ServeMux, checker Checker) {
	mux.Handle("/health", NewHealthCheckHttpHandler(checker))
}
