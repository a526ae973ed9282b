package handlers

import (
	"net/http"

	"waste-route-service/internal/api/dto"
	"waste-route-service/internal/ports"
)

// RequestHandler exposes read-only service request endpoints.
type RequestHandler struct {
	Repo ports.ServiceRequestRepository
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Repo.ListPendingRequests(r.Context())
	if err != nil {
		writeAppError(w, r, "list requests", err)
		return
	}

	res := dto.ListRequestsResponse{
		Requests: make([]dto.ServiceRequestDTO, 0, len(requests)),
	}
	for _, req := range requests {
		res.Requests = append(res.Requests, dto.FromServiceRequest(req))
	}

	writeJSON(w, r, http.StatusOK, res)
}
