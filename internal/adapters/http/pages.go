package httpadapter

import (
	"net/http"
	"strconv"
)

func (rt *Router) pageSegments(w http.ResponseWriter, r *http.Request) {
	page, ok := pageNumber(w, r)
	if !ok {
		return
	}
	segments, err := rt.pages.Segments(r.Context(), r.PathValue("id"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": page, "segments": segments})
}

func (rt *Router) pageImage(w http.ResponseWriter, r *http.Request) {
	page, ok := pageNumber(w, r)
	if !ok {
		return
	}
	data, contentType, err := rt.pages.Image(r.Context(), r.PathValue("id"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (rt *Router) pageText(w http.ResponseWriter, r *http.Request) {
	page, ok := pageNumber(w, r)
	if !ok {
		return
	}
	text, err := rt.pages.Text(r.Context(), r.PathValue("id"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": page, "text": text})
}

// Page numbers are zero based; the first page is page 0.
func pageNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil || page < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "page must be a non-negative integer"})
		return 0, false
	}
	return page, true
}
