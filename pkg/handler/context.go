package handler

// DI for the status handlers.

import (
	"net/http"

	"github.com/LegumeFederation/intermine-legfed/pkg/pipeline"
)

type RunContext struct {
	Version string
	Tracker *pipeline.Tracker
	Metrics http.Handler
}
