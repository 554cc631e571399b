package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

func (rt *Router) startAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, collapsed, err := rt.analyze.Start(r.Context(), r.PathValue("id"))
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.RecordAnalysisRun(serviceName, 0, 0, err)
		}
		writeError(w, err)
		return
	}
	if collapsed {
		if rt.metrics != nil {
			rt.metrics.RecordAnalysisCollapsed(serviceName)
		}
		writeJSON(w, http.StatusAccepted, map[string]bool{"collapsed": true})
		return
	}
	if rt.metrics != nil {
		elapsed := time.Duration(analysis.ProcessingTime * float64(time.Second))
		rt.metrics.RecordAnalysisRun(serviceName, analysis.TotalDetections, elapsed, nil)
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) getAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis := rt.store.CurrentAnalysis()
	if analysis == nil || analysis.DocumentID != r.PathValue("id") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": domain.ErrAnalysisNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) patchDetection(w http.ResponseWriter, r *http.Request) {
	var patch domain.DetectionPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	updated, err := rt.store.UpdateDetection(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (rt *Router) approveAll(w http.ResponseWriter, r *http.Request) {
	rt.setAllApproved(w, r, true)
}

func (rt *Router) rejectAll(w http.ResponseWriter, r *http.Request) {
	rt.setAllApproved(w, r, false)
}

func (rt *Router) setAllApproved(w http.ResponseWriter, r *http.Request, approved bool) {
	var err error
	if approved {
		err = rt.store.ApproveAllDetections(r.Context())
	} else {
		err = rt.store.RejectAllDetections(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
