package dto

// One stop of a persisted route.
type StopResponse struct {
	LocationIndex int `json:"location_index"`
	Delivered     int `json:"delivered"`
}

// Routes driven by one vehicle type.
type VehicleTypeRoutesResponse struct {
	VehicleTypeIndex int              `json:"vehicle_type_index"`
	Routes           [][]StopResponse `json:"routes"`
}

type ListRoutesResponse struct {
	RouteCount   int                         `json:"route_count"`
	VehicleTypes []VehicleTypeRoutesResponse `json:"vehicle_types"`
}
