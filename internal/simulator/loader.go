package simulator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/chrisdamba/ridesim/internal/factories"
	"github.com/chrisdamba/ridesim/internal/models"
	"github.com/chrisdamba/ridesim/internal/repositories"
)

const (
	userChunkSize    = 1000
	vehicleChunkSize = 1000
	rideChunkSize    = 800
)

// Repos bundles the three entity repositories the loader and simulator need.
type Repos struct {
	Users    repositories.UserRepository
	Vehicles repositories.VehicleRepository
	Rides    repositories.RideRepository
}

// Loader populates one city at a time in bounded chunks, one transaction per
// chunk. Users must land before vehicles (vehicles need owners) and vehicles
// before rides.
type Loader struct {
	repos Repos
	gen   *factories.Generator
	log   *zap.SugaredLogger
	bar   *progressbar.ProgressBar
}

func NewLoader(repos Repos, gen *factories.Generator, log *zap.SugaredLogger, bar *progressbar.ProgressBar) *Loader {
	return &Loader{repos: repos, gen: gen, log: log, bar: bar}
}

// LoadCity generates and commits the requested entities for one city.
// Cancellation between chunks exits early without error; chunks already
// committed stay durable.
func (l *Loader) LoadCity(ctx context.Context, city string, numUsers, numVehicles, numRides int) error {
	l.log.Infow("generating user data", "city", city)
	if err := l.loadUsers(ctx, city, numUsers); err != nil {
		return err
	}

	l.log.Infow("generating vehicle data", "city", city)
	if err := l.loadVehicles(ctx, city, numVehicles); err != nil {
		return err
	}

	l.log.Infow("generating ride data", "city", city)
	return l.loadRides(ctx, city, numRides)
}

func (l *Loader) loadUsers(ctx context.Context, city string, numUsers int) error {
	for chunk := 0; chunk < numUsers; chunk += userChunkSize {
		if ctx.Err() != nil {
			l.log.Debug("terminating")
			return nil
		}

		n := min(userChunkSize, numUsers-chunk)
		users := make([]*models.User, n)
		for i := range users {
			users[i] = l.gen.NewUser(city)
		}
		if err := l.repos.Users.BulkCreate(ctx, users); err != nil {
			if interrupted(ctx, err) {
				l.log.Debug("terminating")
				return nil
			}
			return err
		}
		l.progress(n)
	}
	return nil
}

func (l *Loader) loadVehicles(ctx context.Context, city string, numVehicles int) error {
	for chunk := 0; chunk < numVehicles; chunk += vehicleChunkSize {
		if ctx.Err() != nil {
			l.log.Debug("terminating")
			return nil
		}

		n := min(vehicleChunkSize, numVehicles-chunk)
		err := l.repos.Vehicles.BulkCreateWithOwners(ctx, city, func(owners []models.UserRef) []*models.Vehicle {
			vehicles := make([]*models.Vehicle, n)
			for i := range vehicles {
				vehicles[i] = l.gen.NewVehicle(city, owners[l.gen.Intn(len(owners))])
			}
			return vehicles
		})
		if err != nil {
			if interrupted(ctx, err) {
				l.log.Debug("terminating")
				return nil
			}
			return err
		}
		l.progress(n)
	}
	return nil
}

func (l *Loader) loadRides(ctx context.Context, city string, numRides int) error {
	for chunk := 0; chunk < numRides; chunk += rideChunkSize {
		if ctx.Err() != nil {
			l.log.Debug("terminating")
			return nil
		}

		n := min(rideChunkSize, numRides-chunk)
		err := l.repos.Rides.BulkCreateWithRefs(ctx, city, func(riders []models.UserRef, vehicles []models.VehicleRef) []*models.Ride {
			rides := make([]*models.Ride, n)
			for i := range rides {
				rides[i] = l.gen.NewHistoricalRide(city,
					riders[l.gen.Intn(len(riders))],
					vehicles[l.gen.Intn(len(vehicles))])
			}
			return rides
		})
		if err != nil {
			if interrupted(ctx, err) {
				l.log.Debug("terminating")
				return nil
			}
			return err
		}
		l.progress(n)
	}
	return nil
}

// interrupted distinguishes a chunk aborted by shutdown from a storage
// failure. The driver surfaces our own cancellation as an error mid-chunk;
// that is an early exit, never a load failure.
func interrupted(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || ctx.Err() != nil
}

func (l *Loader) progress(n int) {
	if l.bar != nil {
		_ = l.bar.Add(n)
	}
}

// RunLoad splits the city list across at most one worker per city and runs the
// bulk loader per group. It blocks until every worker finishes or the context
// is cancelled, then reports aggregate throughput.
func RunLoad(ctx context.Context, cfg *models.Config, cities []string, repos Repos, log *zap.SugaredLogger) error {
	numUsersPerCity := ceilDiv(cfg.NumUsers, len(cities))
	numVehiclesPerCity := ceilDiv(cfg.NumVehicles, len(cities))
	numRidesPerCity := ceilDiv(cfg.NumRides, len(cities))

	usableThreads := min(cfg.NumThreads, len(cities))
	if usableThreads < cfg.NumThreads {
		log.Infof("only using %d of %d requested threads, since we create at most one thread per city",
			usableThreads, cfg.NumThreads)
	}

	log.Infow("loading dataset",
		"cities", cities,
		"users_per_city", numUsersPerCity,
		"vehicles_per_city", numVehiclesPerCity,
		"rides_per_city", numRidesPerCity,
	)

	totalEntities := int64(len(cities)) * int64(numUsersPerCity+numVehiclesPerCity+numRidesPerCity)
	bar := progressbar.Default(totalEntities, "loading")

	groups := splitCities(cities, usableThreads)
	startTime := time.Now()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, group := range groups {
		loader := NewLoader(repos, factories.NewGenerator(cfg.Seed+int64(i)), log, bar)

		wg.Add(1)
		go func(group []string) {
			defer wg.Done()
			for _, city := range group {
				if ctx.Err() != nil {
					log.Debug("terminating")
					return
				}
				if err := loader.LoadCity(ctx, city, numUsersPerCity, numVehiclesPerCity, numRidesPerCity); err != nil {
					if interrupted(ctx, err) {
						log.Debug("terminating")
						return
					}
					log.Errorw("failed to load city", "city", city, "error", err)
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				log.Infow("populated city", "city", city, "elapsed", time.Since(startTime))
			}
		}(group)
	}
	wg.Wait()

	duration := time.Since(startTime).Seconds()
	log.Infof("populated %d cities in %.2f seconds", len(cities), duration)
	log.Infof("- %.2f users/second", float64(numUsersPerCity*len(cities))/duration)
	log.Infof("- %.2f vehicles/second", float64(numVehiclesPerCity*len(cities))/duration)
	log.Infof("- %.2f rides/second", float64(numRidesPerCity*len(cities))/duration)

	return firstErr
}

// splitCities divides the ordered city list into at most numGroups contiguous
// groups of roughly equal size.
func splitCities(cities []string, numGroups int) [][]string {
	perGroup := ceilDiv(len(cities), numGroups)

	var groups [][]string
	for start := 0; start < len(cities); start += perGroup {
		end := min(start+perGroup, len(cities))
		groups = append(groups, cities[start:end])
	}
	return groups
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
