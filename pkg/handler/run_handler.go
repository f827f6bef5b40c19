package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/LegumeFederation/intermine-legfed/logger"
	"github.com/LegumeFederation/intermine-legfed/pkg/middle"
	"github.com/LegumeFederation/intermine-legfed/pkg/pipeline"
)

// RunStatus reports the progress of the current load.
func (rc *RunContext) RunStatus(w http.ResponseWriter, r *http.Request) {
	if rc.Tracker == nil {
		http.Error(w, "no run in progress", http.StatusServiceUnavailable)
		return
	}
	p := rc.Tracker.Snapshot()
	middle.Logger(r.Context(), logger.L()).Debug("Run status", zap.String("state", string(p.State)))
	status := http.StatusOK
	if p.State == pipeline.StateFailed {
		// the body still carries the failure
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, p)
}
