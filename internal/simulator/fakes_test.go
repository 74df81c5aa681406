package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chrisdamba/ridesim/internal/models"
)

// fakeStore is an in-memory stand-in for the postgres repositories. It records
// chunk sizes and operation order so tests can assert the loader's batching
// behavior.
type fakeStore struct {
	mu sync.Mutex

	users    map[string][]*models.User
	vehicles map[string][]*models.Vehicle
	rides    map[string][]*models.Ride

	userChunks    []int
	vehicleChunks []int
	rideChunks    []int
	opOrder       []string

	failBulkUsers  bool
	failCreateUser bool

	// blockBulkUsers makes BulkCreate hold the chunk until the context is
	// cancelled and then return ctx.Err(), the way a driver aborts an
	// in-flight statement.
	blockBulkUsers bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string][]*models.User),
		vehicles: make(map[string][]*models.Vehicle),
		rides:    make(map[string][]*models.Ride),
	}
}

func (s *fakeStore) repos() Repos {
	return Repos{
		Users:    &fakeUsers{s: s},
		Vehicles: &fakeVehicles{s: s},
		Rides:    &fakeRides{s: s},
	}
}

func (s *fakeStore) userRefs(city string) []models.UserRef {
	refs := make([]models.UserRef, 0, len(s.users[city]))
	for _, u := range s.users[city] {
		refs = append(refs, u.Ref())
	}
	return refs
}

func (s *fakeStore) vehicleRefs(city string) []models.VehicleRef {
	refs := make([]models.VehicleRef, 0, len(s.vehicles[city]))
	for _, v := range s.vehicles[city] {
		refs = append(refs, v.Ref())
	}
	return refs
}

type fakeUsers struct {
	s *fakeStore
}

func (r *fakeUsers) BulkCreate(ctx context.Context, users []*models.User) error {
	if r.s.blockBulkUsers {
		<-ctx.Done()
		return ctx.Err()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failBulkUsers {
		return fmt.Errorf("injected bulk failure")
	}
	for _, u := range users {
		r.s.users[u.City] = append(r.s.users[u.City], u)
	}
	r.s.userChunks = append(r.s.userChunks, len(users))
	r.s.opOrder = append(r.s.opOrder, "users")
	return nil
}

func (r *fakeUsers) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCreateUser {
		return fmt.Errorf("injected create failure")
	}
	r.s.users[user.City] = append(r.s.users[user.City], user)
	return nil
}

func (r *fakeUsers) GetRefsByCity(_ context.Context, city string) ([]models.UserRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.userRefs(city), nil
}

type fakeVehicles struct {
	s *fakeStore
}

func (r *fakeVehicles) BulkCreateWithOwners(_ context.Context, city string, build func(owners []models.UserRef) []*models.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owners := r.s.userRefs(city)
	if len(owners) == 0 {
		return fmt.Errorf("no users in city %q to own vehicles", city)
	}
	vehicles := build(owners)
	r.s.vehicles[city] = append(r.s.vehicles[city], vehicles...)
	r.s.vehicleChunks = append(r.s.vehicleChunks, len(vehicles))
	r.s.opOrder = append(r.s.opOrder, "vehicles")
	return nil
}

func (r *fakeVehicles) Create(_ context.Context, vehicle *models.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vehicles[vehicle.City] = append(r.s.vehicles[vehicle.City], vehicle)
	return nil
}

func (r *fakeVehicles) GetRefsByCity(_ context.Context, city string) ([]models.VehicleRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.vehicleRefs(city), nil
}

func (r *fakeVehicles) BrowseByCity(_ context.Context, city string, limit int) ([]*models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vehicles := r.s.vehicles[city]
	if len(vehicles) > limit {
		vehicles = vehicles[:limit]
	}
	return append([]*models.Vehicle(nil), vehicles...), nil
}

type fakeRides struct {
	s *fakeStore
}

func (r *fakeRides) BulkCreateWithRefs(_ context.Context, city string, build func(riders []models.UserRef, vehicles []models.VehicleRef) []*models.Ride) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	riders := r.s.userRefs(city)
	vehicles := r.s.vehicleRefs(city)
	if len(riders) == 0 || len(vehicles) == 0 {
		return fmt.Errorf("no users or vehicles in city %q to ride", city)
	}
	rides := build(riders, vehicles)
	r.s.rides[city] = append(r.s.rides[city], rides...)
	r.s.rideChunks = append(r.s.rideChunks, len(rides))
	r.s.opOrder = append(r.s.opOrder, "rides")
	return nil
}

func (r *fakeRides) Start(_ context.Context, ride *models.Ride) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rides[ride.City] = append(r.s.rides[ride.City], ride)
	return nil
}

func (r *fakeRides) End(_ context.Context, city string, id uuid.UUID, endTime time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ride := range r.s.rides[city] {
		if ride.ID == id {
			if ride.EndTime != nil {
				return fmt.Errorf("ride %s in %q already ended", id, city)
			}
			t := endTime
			ride.EndTime = &t
			return nil
		}
	}
	return fmt.Errorf("ride %s not found in %q", id, city)
}

func (r *fakeRides) GetActiveRefsByCity(_ context.Context, city string) ([]models.RideRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var refs []models.RideRef
	for _, ride := range r.s.rides[city] {
		if ride.EndTime == nil {
			refs = append(refs, ride.Ref())
		}
	}
	return refs, nil
}
