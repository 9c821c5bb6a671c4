package app

import (
	"github.com/go-chi/oauth"

	"github.com/eyalbz/leadform/config"
	"github.com/eyalbz/leadform/database"
)

// App bundles what handlers need: the data service store, the bearer server
// issuing owner tokens, and configuration.
type App struct {
	*database.Store
	*oauth.BearerServer
	config.Config
}
