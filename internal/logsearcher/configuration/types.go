package configuration

import (
	"time"

	"github.com/princess-entrapta/logsearcher/internal/common/database"
)

type ServerConfiguration struct {
	// Database configuration
	Postgres database.PostgresConfig
	// Port the HTTP API listens on
	Port uint16
	// Origins allowed to call the API from a browser
	CorsAllowedOrigins []string
	// Upper bound on the duration of a single query
	QueryTimeout time.Duration
}
