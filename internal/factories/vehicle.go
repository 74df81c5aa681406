package factories

import (
	"time"

	"github.com/chrisdamba/ridesim/internal/models"
)

func (g *Generator) NewVehicle(city string, owner models.UserRef) *models.Vehicle {
	vehicleType := g.VehicleType()
	return &models.Vehicle{
		ID:              g.ID(),
		City:            city,
		Type:            vehicleType,
		OwnerID:         owner.ID,
		CreationTime:    time.Now(),
		Status:          g.VehicleStatus(),
		CurrentLocation: g.Address(),
		Ext:             g.VehicleMetadata(vehicleType),
	}
}
