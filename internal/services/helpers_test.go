package services

import "waste-route-service/internal/domain"

func req(id int64, lat, lon float64) domain.ServiceRequest {
	return domain.ServiceRequest{
		ID:           id,
		Location:     &domain.GeoPoint{Lat: lat, Lon: lon},
		CustomerName: "customer",
	}
}

func ids(rs []domain.ServiceRequest) []int64 {
	out := make([]int64, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

// twoGroups returns three requests near (0,0) and three near (10,10).
func twoGroups() []domain.ServiceRequest {
	return []domain.ServiceRequest{
		req(1, 0, 0), req(2, 0.1, 0), req(3, 0, 0.1),
		req(4, 10, 10), req(5, 10.1, 10), req(6, 10, 10.1),
	}
}
