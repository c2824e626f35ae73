package router

import (
	"github.com/javierbuenopatience/patience-backend/internal/application"
	"github.com/javierbuenopatience/patience-backend/internal/container"
	pginfra "github.com/javierbuenopatience/patience-backend/internal/infrastructure/postgres"
	handlers "github.com/javierbuenopatience/patience-backend/internal/interface/http"
	"github.com/javierbuenopatience/patience-backend/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	pool := container.GetPGPool()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(pool)
	docs := pginfra.NewDocumentRepository(pool)
	acts := pginfra.NewActivityRepository(pool)

	svc := application.NewAccountService(
		users,
		docs,
		acts,
		container.GetHasher(),
		container.GetStorage(),
		publisherOrNil(),
		logger,
	)

	r.Add(modules.NewAccountModule(handlers.NewAccountHandler(svc, logger)))
	r.Add(modules.NewDocumentModule(handlers.NewDocumentHandler(svc, logger)))
	r.Add(modules.NewActivityModule(handlers.NewActivityHandler(svc, logger)))
}

// publisherOrNil avoids handing the service a typed-nil interface when
// no queue is configured.
func publisherOrNil() application.Publisher {
	if p := container.GetPublisher(); p != nil {
		return p
	}
	return nil
}
