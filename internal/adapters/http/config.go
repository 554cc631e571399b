package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

func (rt *Router) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.store.RedactionConfig())
}

func (rt *Router) patchConfig(w http.ResponseWriter, r *http.Request) {
	var patch domain.RedactionConfigPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json: unknown or malformed fields"})
		return
	}

	cfg, err := rt.store.UpdateRedactionConfig(r.Context(), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (rt *Router) getPatterns(w http.ResponseWriter, r *http.Request) {
	catalog, err := rt.patterns.Catalog(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}
