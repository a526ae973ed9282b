package handlers

import (
	"net/http"

	"waste-route-service/internal/api/dto"
	"waste-route-service/internal/ports"
)

// VehicleHandler exposes the fleet, whatever each vehicle's status.
type VehicleHandler struct {
	Repo ports.VehicleRepository
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Repo.ListVehicles(r.Context())
	if err != nil {
		writeAppError(w, r, "list vehicles", err)
		return
	}

	res := dto.ListVehiclesResponse{
		Vehicles: make([]dto.VehicleDTO, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, dto.FromVehicle(v))
	}

	writeJSON(w, r, http.StatusOK, res)
}
