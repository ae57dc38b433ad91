package router

import (
	"github.com/oksasatya/identity-service/internal/application"
	"github.com/oksasatya/identity-service/internal/container"
	pginfra "github.com/oksasatya/identity-service/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/identity-service/internal/interface/http"
	"github.com/oksasatya/identity-service/internal/router/modules"
	"github.com/oksasatya/identity-service/internal/search"
	"github.com/oksasatya/identity-service/pkg/mailer"
)

// InitModules builds the repositories, services, and handlers from the
// container singletons and registers every feature module on the registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	jwt := container.GetJWT()

	users := pginfra.NewUserRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)
	roles := pginfra.NewRoleRepository(pool)
	verifications := pginfra.NewVerificationRepository(pool)

	notifier := mailer.NewQueueNotifier(container.GetRabbitPub(), logger)
	index := search.NewUserIndex(container.GetES(), cfg.ESUsersIndex)

	backend := application.NewRepositoryCredentialBackend(users)
	authSvc := application.NewAuthService(backend, users, jwt, notifier, container.GetRedis(), logger)

	verificationSvc := application.NewVerificationService(verifications, users, notifier, logger)
	verificationSvc.TTL = cfg.VerificationTTL

	userSvc := application.NewUserService(users, profiles, roles, index, logger)
	roleSvc := application.NewRoleService(roles, logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger)))
	r.Add(modules.NewVerificationModule(handlers.NewVerificationHandler(verificationSvc, logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), jwt))
	r.Add(modules.NewRoleModule(handlers.NewRoleHandler(roleSvc, logger), jwt))
}
