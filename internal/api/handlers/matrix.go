package handlers

import (
	"archive-route-service/internal/api/dto"
	"archive-route-service/internal/ports"
	"log"
	"net/http"
)

// MatrixHandler exposes the persisted travel matrix.
type MatrixHandler struct {
	Repo ports.MatrixRepository
}

func (h *MatrixHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stored, err := h.Repo.LoadMatrix(r.Context())
	if err != nil {
		log.Printf("load matrix failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if stored == nil || stored.Matrix == nil || len(stored.Labels) == 0 {
		writeError(w, r, http.StatusNotFound, "no travel matrix stored")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.MatrixResponse{
		Labels:    stored.Labels,
		Distances: stored.Matrix.Distances,
		Times:     stored.Matrix.Times,
	})
}
