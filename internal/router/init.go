package router

import (
	"github.com/ghozali/disaster-incident-api/internal/application"
	"github.com/ghozali/disaster-incident-api/internal/container"
	"github.com/ghozali/disaster-incident-api/internal/domain/entity"
	pginfra "github.com/ghozali/disaster-incident-api/internal/infrastructure/postgres"
	handlers "github.com/ghozali/disaster-incident-api/internal/interface/http"
	"github.com/ghozali/disaster-incident-api/internal/router/modules"
)

func buildAuthModule() *modules.AuthModule {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	svc := application.NewAuthService(repo, container.GetJWT(), container.GetLogger())
	handler := handlers.NewAuthHandler(svc, container.GetLogger())
	return modules.NewAuthModule(handler, container.GetJWT())
}

func buildIncidentService(kind entity.IncidentKind) *application.IncidentService {
	repo := pginfra.NewIncidentRepository(container.GetPGPool(), kind)
	return application.NewIncidentService(repo, container.GetLogger(), container.GetEventPub(), container.GetES())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	r.Add(buildAuthModule())

	fireSvc := buildIncidentService(entity.FireKind)
	r.Add(modules.NewIncidentModule(handlers.NewFireHandler(fireSvc, container.GetLogger()), container.GetJWT(), "fire"))

	droughtSvc := buildIncidentService(entity.DroughtKind)
	r.Add(modules.NewIncidentModule(handlers.NewDroughtHandler(droughtSvc, container.GetLogger()), container.GetJWT(), "drought"))

	r.Add(modules.NewDebugModule())
}
