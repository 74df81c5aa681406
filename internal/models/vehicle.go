package models

import (
	"time"

	"github.com/google/uuid"
)

type Vehicle struct {
	ID              uuid.UUID
	City            string
	Type            string
	OwnerID         uuid.UUID
	CreationTime    time.Time
	Status          string
	CurrentLocation string
	Ext             map[string]string
}

type VehicleRef struct {
	ID uuid.UUID
}

func (v *Vehicle) Ref() VehicleRef {
	return VehicleRef{ID: v.ID}
}
