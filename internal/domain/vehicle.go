package domain

// Describes a class of vehicle in the fleet.
// Used counts the distinct archive routes assigned to this type.
type VehicleType struct {
	Index        int
	Name         string
	DistanceCost float64
	TimeCost     float64
	Capacity     int
	Available    int
	Used         int
}

// A single vehicle. Registered is false for vehicles synthesized from archive
// codes that are not in the fleet list.
type Vehicle struct {
	Name       string
	Type       *VehicleType
	Registered bool
}
