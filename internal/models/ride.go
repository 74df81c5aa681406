package models

import (
	"time"

	"github.com/google/uuid"
)

type Ride struct {
	ID           uuid.UUID
	City         string
	VehicleCity  string
	RiderID      uuid.UUID
	VehicleID    uuid.UUID
	StartAddress string
	EndAddress   string
	StartTime    time.Time
	EndTime      *time.Time
	Revenue      float64
}

// RideRef identifies an active ride. Rides are keyed on (city, id) so the city
// must travel with the id to end the ride later.
type RideRef struct {
	City string
	ID   uuid.UUID
}

func (r *Ride) Ref() RideRef {
	return RideRef{City: r.City, ID: r.ID}
}
