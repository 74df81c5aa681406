package models

const (
	VehicleTypeBike       = "bike"
	VehicleTypeScooter    = "scooter"
	VehicleTypeSkateboard = "skateboard"

	VehicleStatusAvailable = "available"
	VehicleStatusInUse     = "in_use"
	VehicleStatusLost      = "lost"
)
