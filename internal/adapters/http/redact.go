package httpadapter

import (
	"fmt"
	"net/http"
)

func (rt *Router) applyRedactions(w http.ResponseWriter, r *http.Request) {
	artifact, err := rt.apply.Apply(r.Context(), r.PathValue("id"))
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.RecordRedactionApplied(serviceName, 0, err)
		}
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordRedactionApplied(serviceName, len(artifact.Data), nil)
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}
