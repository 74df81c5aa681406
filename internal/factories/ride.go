package factories

import (
	"time"

	"github.com/chrisdamba/ridesim/internal/models"
)

// NewHistoricalRide builds a completed ride that started at a random point in
// the last 30 days and lasted up to an hour.
func (g *Generator) NewHistoricalRide(city string, rider models.UserRef, vehicle models.VehicleRef) *models.Ride {
	startTime := time.Now().AddDate(0, 0, -g.rng.Intn(31))
	endTime := startTime.Add(time.Duration(g.rng.Intn(61)) * time.Minute)

	return &models.Ride{
		ID:           g.ID(),
		City:         city,
		VehicleCity:  city,
		RiderID:      rider.ID,
		VehicleID:    vehicle.ID,
		StartAddress: g.Address(),
		EndAddress:   g.Address(),
		StartTime:    startTime,
		EndTime:      &endTime,
		Revenue:      g.Revenue(),
	}
}

// NewActiveRide builds a ride that starts now and has no end time yet.
func (g *Generator) NewActiveRide(city string, rider models.UserRef, vehicle models.VehicleRef) *models.Ride {
	return &models.Ride{
		ID:           g.ID(),
		City:         city,
		VehicleCity:  city,
		RiderID:      rider.ID,
		VehicleID:    vehicle.ID,
		StartAddress: g.Address(),
		EndAddress:   g.Address(),
		StartTime:    time.Now(),
		Revenue:      g.Revenue(),
	}
}
