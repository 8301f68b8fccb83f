package handlers

import (
	"archive-route-service/internal/api/dto"
	"archive-route-service/internal/ports"
	"log"
	"net/http"
	"sort"
	"strconv"
)

// RouteHandler exposes the persisted archive routes.
type RouteHandler struct {
	Repo ports.ArchiveRouteRepository
}

// List returns all routes grouped by vehicle type, or one type with ?vehicle_type=<index>.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := -1
	if raw := r.URL.Query().Get("vehicle_type"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 {
			writeError(w, r, http.StatusBadRequest, "vehicle_type must be a non-negative integer")
			return
		}
		filter = idx
	}

	records, err := h.Repo.LoadRoutes(r.Context())
	if err != nil {
		log.Printf("load routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	typeIdxs := make([]int, 0, len(records))
	for idx := range records {
		if filter >= 0 && idx != filter {
			continue
		}
		typeIdxs = append(typeIdxs, idx)
	}
	sort.Ints(typeIdxs)

	res := dto.ListRoutesResponse{
		VehicleTypes: make([]dto.VehicleTypeRoutesResponse, 0, len(typeIdxs)),
	}
	for _, idx := range typeIdxs {
		group := dto.VehicleTypeRoutesResponse{
			VehicleTypeIndex: idx,
			Routes:           make([][]dto.StopResponse, 0, len(records[idx])),
		}
		for _, rec := range records[idx] {
			stops := make([]dto.StopResponse, 0, len(rec))
			for _, s := range rec {
				stops = append(stops, dto.StopResponse{LocationIndex: s.LocationIndex, Delivered: s.Delivered})
			}
			group.Routes = append(group.Routes, stops)
		}
		res.RouteCount += len(group.Routes)
		res.VehicleTypes = append(res.VehicleTypes, group)
	}

	writeJSON(w, r, http.StatusOK, res)
}
