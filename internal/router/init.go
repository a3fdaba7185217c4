package router

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pawpatrol/config"
	"github.com/oksasatya/pawpatrol/internal/application"
	"github.com/oksasatya/pawpatrol/internal/container"
	repo "github.com/oksasatya/pawpatrol/internal/domain/repository"
	"github.com/oksasatya/pawpatrol/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/pawpatrol/internal/infrastructure/postgres"
	"github.com/oksasatya/pawpatrol/internal/infrastructure/search"
	"github.com/oksasatya/pawpatrol/internal/infrastructure/storage"
	handlers "github.com/oksasatya/pawpatrol/internal/interface/http"
	"github.com/oksasatya/pawpatrol/internal/router/modules"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

type repositories struct {
	Users    repo.UserRepository
	Shelters repo.ShelterRepository
	Reports  repo.ReportRepository
	Media    repo.ReportMediaRepository
}

// buildRepositories prefers the in-memory store when one is registered.
func buildRepositories() repositories {
	if st := container.GetMemoryStore(); st != nil {
		return repositories{Users: st.Users(), Shelters: st.Shelters(), Reports: st.Reports(), Media: st.Media()}
	}
	pool := container.GetPGPool()
	return repositories{
		Users:    pginfra.NewUserRepository(pool),
		Shelters: pginfra.NewShelterRepository(pool),
		Reports:  pginfra.NewReportRepository(pool),
		Media:    pginfra.NewReportMediaRepository(pool),
	}
}

// Services are the application services behind the HTTP modules.
type Services struct {
	Auth     *application.AuthService
	Users    *application.UserService
	Reports  *application.ReportService
	Shelters *application.ShelterService
	Media    *application.MediaService
}

// BuildServices wires services from the container. Optional components
// that are absent are left as nil interfaces.
func BuildServices() *Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	repos := buildRepositories()

	reports := application.NewReportService(repos.Reports, nil, nil, logger)
	if es := container.GetES(); es != nil {
		reports.Index = search.NewReportIndex(es, cfg.ESReportsIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		reports.Events = pub
	}

	shelters := application.NewShelterService(repos.Shelters, nil, jwt, logger)
	if rdb := container.GetRedis(); rdb != nil {
		shelters.Cache = cache.NewShelterCache(rdb, cfg.ShelterListTTL)
	}

	media := application.NewMediaService(repos.Media, repos.Reports, nil, logger)
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		media.Storage = storage.NewGCSStorage(gcs, cfg.GCSBucket)
	}

	return &Services{
		Auth:     application.NewAuthService(repos.Users, repos.Shelters, jwt, logger),
		Users:    application.NewUserService(repos.Users),
		Reports:  reports,
		Shelters: shelters,
		Media:    media,
	}
}

func healthChecks() map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if es := container.GetES(); es != nil {
		checks["elasticsearch"] = func(ctx context.Context) error { return helpers.ESPing(ctx, es) }
	}
	return checks
}

// RegisterModules adds every feature module to the registry.
func RegisterModules(r *Registry, s *Services, cfg *config.Config, logger *logrus.Logger) {
	deps := modules.Deps{JWT: container.GetJWT(), Redis: container.GetRedis()}

	r.Add(
		modules.NewHealthModule(handlers.NewHealthHandler(healthChecks())),
		modules.NewAuthModule(handlers.NewAuthHandler(s.Auth, logger), deps),
		modules.NewUserModule(handlers.NewUserHandler(s.Users, logger), deps),
		modules.NewShelterModule(handlers.NewShelterHandler(s.Shelters, logger), deps),
		modules.NewReportModule(handlers.NewReportHandler(s.Reports, logger), deps),
		modules.NewMediaModule(handlers.NewMediaHandler(s.Media, logger, cfg.MediaMaxUploadBytes), deps),
	)
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(deps))
	}
}

// InitModules builds the services from the container and registers all modules.
// Call once during startup.
func InitModules(r *Registry) {
	RegisterModules(r, BuildServices(), container.GetConfig(), container.GetLogger())
}
