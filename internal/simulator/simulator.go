package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrisdamba/ridesim/internal/factories"
	"github.com/chrisdamba/ridesim/internal/models"
)

// browseLimit caps the read-only "home screen" vehicle query.
const browseLimit = 25

type opKind int

const (
	opRead opKind = iota
	opSignup
	opAddVehicle
	opStartRide
	opEndRide
)

// nextOp draws the operation for one iteration as a chain of sequential coin
// flips, one draw per decision layer. The order matters: it yields non-uniform
// effective weights (with readFraction=0: signup 10%, add-vehicle 9%,
// start-ride 40.5%, end-ride 40.5%) and downstream consumers depend on that
// workload shape, so do not flatten it into a single distribution.
func nextOp(rng *rand.Rand, readFraction float64) opKind {
	if rng.Float64() < readFraction {
		return opRead
	}
	if rng.Float64() < 0.1 {
		return opSignup
	}
	if rng.Float64() < 0.1 {
		return opAddVehicle
	}
	if rng.Float64() < 0.5 {
		return opStartRide
	}
	return opEndRide
}

type opCounters struct {
	reads       atomic.Uint64
	signups     atomic.Uint64
	addVehicles atomic.Uint64
	startRides  atomic.Uint64
	endRides    atomic.Uint64
}

// Simulator generates evenly distributed mixed read/write load for the
// provided cities until its context is cancelled.
type Simulator struct {
	cfg         *models.Config
	cities      []string
	repos       Repos
	registries  map[string]*CityRegistry
	activeRides *ActiveRidePool
	output      OutputDestination
	log         *zap.SugaredLogger
	counters    opCounters
}

func New(cfg *models.Config, cities []string, repos Repos, output OutputDestination, log *zap.SugaredLogger) *Simulator {
	return &Simulator{
		cfg:    cfg,
		cities: cities,
		repos:  repos,
		output: output,
		log:    log,
	}
}

// WarmUp seeds the per-city registries and the active-ride pool from storage.
// It runs single-threaded before any worker starts. A city without users or
// vehicles is an EmptyRegistryError: the simulator cannot pick entities to
// operate on.
func (s *Simulator) WarmUp(ctx context.Context) error {
	s.log.Info("warming up...")

	registries := make(map[string]*CityRegistry, len(s.cities))
	var activeRides []models.RideRef

	for _, city := range s.cities {
		users, err := s.repos.Users.GetRefsByCity(ctx, city)
		if err != nil {
			return err
		}
		vehicles, err := s.repos.Vehicles.GetRefsByCity(ctx, city)
		if err != nil {
			return err
		}
		if len(users) == 0 || len(vehicles) == 0 {
			return &models.EmptyRegistryError{City: city}
		}
		registries[city] = NewCityRegistry(users, vehicles)

		rides, err := s.repos.Rides.GetActiveRefsByCity(ctx, city)
		if err != nil {
			return err
		}
		activeRides = append(activeRides, rides...)
	}

	s.registries = registries
	s.activeRides = NewActiveRidePool(activeRides)
	return nil
}

// Run starts the worker pool and blocks until every worker has observed
// cancellation or died on a storage error. Workers fail independently.
func (s *Simulator) Run(ctx context.Context) error {
	s.log.Infow("starting load", "cities", s.cities, "threads", s.cfg.NumThreads)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i := 0; i < s.cfg.NumThreads; i++ {
		workerSeed := s.cfg.Seed + int64(i)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.runWorker(ctx, workerSeed); err != nil {
				s.log.Errorw("worker terminated", "error", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.log.Infow("simulation stopped",
		"reads", s.counters.reads.Load(),
		"signups", s.counters.signups.Load(),
		"vehicles_added", s.counters.addVehicles.Load(),
		"rides_started", s.counters.startRides.Load(),
		"rides_ended", s.counters.endRides.Load(),
	)
	return firstErr
}

func (s *Simulator) runWorker(ctx context.Context, seed int64) error {
	gen := factories.NewGenerator(seed)
	rng := rand.New(rand.NewSource(seed))

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("terminating worker")
			return nil
		default:
		}

		city := s.cities[rng.Intn(len(s.cities))]
		err := s.applyOp(ctx, gen, rng, city, nextOp(rng, s.cfg.ReadFraction))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func (s *Simulator) applyOp(ctx context.Context, gen *factories.Generator, rng *rand.Rand, city string, op opKind) error {
	switch op {
	case opRead:
		// simulate a user loading the home screen
		if _, err := s.repos.Vehicles.BrowseByCity(ctx, city, browseLimit); err != nil {
			return err
		}
		s.counters.reads.Add(1)

	case opSignup:
		user := gen.NewUser(city)
		if err := s.repos.Users.Create(ctx, user); err != nil {
			return err
		}
		s.registries[city].AddUser(user.Ref())
		s.counters.signups.Add(1)
		s.emit("user_signups", city, user.ID)

	case opAddVehicle:
		owner, ok := s.registries[city].RandomUser(rng)
		if !ok {
			return nil
		}
		vehicle := gen.NewVehicle(city, owner)
		if err := s.repos.Vehicles.Create(ctx, vehicle); err != nil {
			return err
		}
		s.registries[city].AddVehicle(vehicle.Ref())
		s.counters.addVehicles.Add(1)
		s.emit("vehicle_registrations", city, vehicle.ID)

	case opStartRide:
		rider, okUser := s.registries[city].RandomUser(rng)
		vehicle, okVehicle := s.registries[city].RandomVehicle(rng)
		if !okUser || !okVehicle {
			return nil
		}
		ride := gen.NewActiveRide(city, rider, vehicle)
		if err := s.repos.Rides.Start(ctx, ride); err != nil {
			return err
		}
		s.activeRides.Add(ride.Ref())
		s.counters.startRides.Add(1)
		s.emit("ride_starts", city, ride.ID)

	case opEndRide:
		ref, ok := s.activeRides.Pop()
		if !ok {
			// expected empty state, not an error
			return nil
		}
		if err := s.repos.Rides.End(ctx, ref.City, ref.ID, time.Now()); err != nil {
			return err
		}
		s.counters.endRides.Add(1)
		s.emit("ride_ends", ref.City, ref.ID)
	}
	return nil
}

type event struct {
	City string    `json:"city"`
	ID   uuid.UUID `json:"id"`
	At   time.Time `json:"at"`
}

// emit publishes a JSON event for the operation. Sink failures are logged and
// never interrupt the workload.
func (s *Simulator) emit(topic, city string, id uuid.UUID) {
	if s.output == nil {
		return
	}
	msg, err := json.Marshal(event{City: city, ID: id, At: time.Now()})
	if err != nil {
		s.log.Warnw("failed to serialize event", "topic", topic, "error", err)
		return
	}
	if err := s.output.WriteMessage(topic, msg); err != nil {
		s.log.Warnw("failed to write event", "topic", topic, "error", err)
	}
}
