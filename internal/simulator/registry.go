package simulator

import (
	"math/rand"
	"sync"

	"github.com/chrisdamba/ridesim/internal/models"
)

// CityRegistry caches the refs of known users and vehicles for one city.
// It is populated once during warm-up and append-only afterwards, so a ref
// handed out earlier never goes stale. Each city has its own lock; workers
// touching different cities never contend.
type CityRegistry struct {
	mu       sync.Mutex
	users    []models.UserRef
	vehicles []models.VehicleRef
}

func NewCityRegistry(users []models.UserRef, vehicles []models.VehicleRef) *CityRegistry {
	return &CityRegistry{users: users, vehicles: vehicles}
}

func (r *CityRegistry) AddUser(ref models.UserRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, ref)
}

func (r *CityRegistry) AddVehicle(ref models.VehicleRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles = append(r.vehicles, ref)
}

func (r *CityRegistry) RandomUser(rng *rand.Rand) (models.UserRef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.users) == 0 {
		return models.UserRef{}, false
	}
	return r.users[rng.Intn(len(r.users))], true
}

func (r *CityRegistry) RandomVehicle(rng *rand.Rand) (models.VehicleRef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.vehicles) == 0 {
		return models.VehicleRef{}, false
	}
	return r.vehicles[rng.Intn(len(r.vehicles))], true
}

func (r *CityRegistry) Counts() (users, vehicles int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), len(r.vehicles)
}

// ActiveRidePool holds the rides that have started and not yet ended, shared
// by every worker. Pop removes a ride so it can be ended exactly once.
type ActiveRidePool struct {
	mu    sync.Mutex
	rides []models.RideRef
}

func NewActiveRidePool(rides []models.RideRef) *ActiveRidePool {
	return &ActiveRidePool{rides: rides}
}

func (p *ActiveRidePool) Add(ref models.RideRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rides = append(p.rides, ref)
}

func (p *ActiveRidePool) Pop() (models.RideRef, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.rides) == 0 {
		return models.RideRef{}, false
	}
	ref := p.rides[len(p.rides)-1]
	p.rides = p.rides[:len(p.rides)-1]
	return ref, true
}

func (p *ActiveRidePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rides)
}
