package factories

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"

	"github.com/chrisdamba/ridesim/internal/models"
)

var vehicleColors = []string{"red", "yellow", "blue", "green", "black", "white"}

var bikeBrands = []string{"Merida", "Fuji", "Cervelo", "Pinarello", "Santa Cruz", "Bianchi"}

// Generator produces synthetic field values for users, vehicles and rides.
// It is pure apart from its own rng, so every worker owns one and never shares
// it across goroutines.
type Generator struct {
	fake faker.Faker
	rng  *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	// The faker source and the weighted-pick rng get distinct seeds; sharing
	// one would make them replay the same underlying sequence.
	return &Generator{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed + 1)),
	}
}

// Intn exposes the generator's rng so callers can pick random owners and
// riders from sets read inside a transaction.
func (g *Generator) Intn(n int) int {
	return g.rng.Intn(n)
}

func (g *Generator) ID() uuid.UUID {
	return uuid.New()
}

func (g *Generator) Name() string {
	return g.fake.Person().Name()
}

func (g *Generator) Address() string {
	return g.fake.Address().Address()
}

func (g *Generator) CreditCardNumber() string {
	return g.fake.Payment().CreditCardNumber()
}

// VehicleType picks a type with fixed weights: bikes dominate the fleet.
func (g *Generator) VehicleType() string {
	r := g.rng.Float64()
	switch {
	case r < 0.4:
		return models.VehicleTypeBike
	case r < 0.75:
		return models.VehicleTypeScooter
	default:
		return models.VehicleTypeSkateboard
	}
}

// VehicleStatus picks availability with fixed weights; most of the fleet is in
// use at any point in time, and a small share is lost.
func (g *Generator) VehicleStatus() string {
	r := g.rng.Float64()
	switch {
	case r < 0.4:
		return models.VehicleStatusAvailable
	case r < 0.95:
		return models.VehicleStatusInUse
	default:
		return models.VehicleStatusLost
	}
}

// VehicleMetadata returns the per-type ext blob. Every vehicle gets a color;
// bikes additionally carry a brand.
func (g *Generator) VehicleMetadata(vehicleType string) map[string]string {
	ext := map[string]string{
		"color": vehicleColors[g.rng.Intn(len(vehicleColors))],
	}
	if vehicleType == models.VehicleTypeBike {
		ext["brand"] = bikeBrands[g.rng.Intn(len(bikeBrands))]
	}
	return ext
}

// Revenue returns a ride revenue between 0.00 and 99.99.
func (g *Generator) Revenue() float64 {
	return math.Round(g.rng.Float64()*9999) / 100
}
