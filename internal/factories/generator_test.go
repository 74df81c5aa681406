package factories

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/ridesim/internal/models"
)

func TestNewUser(t *testing.T) {
	gen := NewGenerator(42)

	user := gen.NewUser("boston")
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "boston", user.City)
	assert.NotEmpty(t, user.Name)
	assert.NotEmpty(t, user.Address)
	assert.NotEmpty(t, user.CreditCard)
}

func TestNewVehicle(t *testing.T) {
	gen := NewGenerator(42)
	owner := models.UserRef{ID: uuid.New()}

	validTypes := map[string]bool{
		models.VehicleTypeBike:       true,
		models.VehicleTypeScooter:    true,
		models.VehicleTypeSkateboard: true,
	}
	validStatuses := map[string]bool{
		models.VehicleStatusAvailable: true,
		models.VehicleStatusInUse:     true,
		models.VehicleStatusLost:      true,
	}

	for i := 0; i < 200; i++ {
		vehicle := gen.NewVehicle("rome", owner)
		assert.Equal(t, owner.ID, vehicle.OwnerID)
		assert.True(t, validTypes[vehicle.Type], "unexpected type %q", vehicle.Type)
		assert.True(t, validStatuses[vehicle.Status], "unexpected status %q", vehicle.Status)
		assert.Contains(t, vehicle.Ext, "color")
		if vehicle.Type == models.VehicleTypeBike {
			assert.Contains(t, vehicle.Ext, "brand")
		} else {
			assert.NotContains(t, vehicle.Ext, "brand")
		}
	}
}

func TestNewHistoricalRide(t *testing.T) {
	gen := NewGenerator(42)
	rider := models.UserRef{ID: uuid.New()}
	vehicle := models.VehicleRef{ID: uuid.New()}

	for i := 0; i < 100; i++ {
		ride := gen.NewHistoricalRide("paris", rider, vehicle)
		assert.Equal(t, "paris", ride.City)
		assert.Equal(t, "paris", ride.VehicleCity)
		assert.Equal(t, rider.ID, ride.RiderID)
		assert.Equal(t, vehicle.ID, ride.VehicleID)

		assert.False(t, ride.StartTime.After(time.Now()), "start time must be in the past")
		assert.False(t, ride.StartTime.Before(time.Now().AddDate(0, 0, -31)), "start time must be within the last 30 days")

		require.NotNil(t, ride.EndTime)
		duration := ride.EndTime.Sub(ride.StartTime)
		assert.GreaterOrEqual(t, duration, time.Duration(0))
		assert.LessOrEqual(t, duration, time.Hour)

		assert.GreaterOrEqual(t, ride.Revenue, 0.0)
		assert.Less(t, ride.Revenue, 100.0)
	}
}

func TestNewActiveRideHasNoEndTime(t *testing.T) {
	gen := NewGenerator(42)

	ride := gen.NewActiveRide("boston", models.UserRef{ID: uuid.New()}, models.VehicleRef{ID: uuid.New()})
	assert.Nil(t, ride.EndTime)
	assert.WithinDuration(t, time.Now(), ride.StartTime, time.Minute)
}

func TestGeneratorIsDeterministicForSeed(t *testing.T) {
	a := NewGenerator(7)
	b := NewGenerator(7)

	assert.Equal(t, a.Name(), b.Name())
	assert.Equal(t, a.VehicleType(), b.VehicleType())
	assert.Equal(t, a.Revenue(), b.Revenue())
}

func TestGeneratorSourcesAreIndependent(t *testing.T) {
	gen := NewGenerator(42)
	mirror := rand.New(rand.NewSource(42))

	picks := make([]int, 32)
	mirrored := make([]int, 32)
	for i := range picks {
		picks[i] = gen.Intn(1 << 30)
		mirrored[i] = mirror.Intn(1 << 30)
	}

	assert.NotEqual(t, mirrored, picks, "weighted picks must not replay the faker source's sequence")
}
