package httpapi

import "net/http"

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) refreshDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard.Refresh(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
