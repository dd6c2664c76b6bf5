//go:build wireinject
// +build wireinject

package wire

import (
	authhttpapi "entrybase-server/internal/auth/httpapi"
	authpersistence "entrybase-server/internal/auth/persistence"
	authusecases "entrybase-server/internal/auth/usecases"
	entryhttpapi "entrybase-server/internal/entry/httpapi"
	entrypersistence "entrybase-server/internal/entry/persistence"
	entryusecases "entrybase-server/internal/entry/usecases"
	"entrybase-server/internal/infra/httpserver"

	"github.com/google/wire"
)

var AuthServiceSet = wire.NewSet(
	provideAppConfig,
	provideDatabase,
	provideCache,
	provideSessionTTL,
	provideTokenResolver,
	wire.Bind(new(authusecases.TokenResolver), new(*authusecases.StaticTokenResolver)),
	authpersistence.NewSessionRepository,
	wire.Bind(new(authusecases.SessionRepository), new(*authpersistence.SimpleSessionRepository)),
	authusecases.NewAuthService,
	wire.Bind(new(authusecases.AuthService), new(*authusecases.SimpleAuthService)),
)

func InitializeEntryController() (*entryhttpapi.EntryController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		provideRegistry,
		wire.Bind(new(entryusecases.SchemaRegistry), new(*entryusecases.SimpleSchemaRegistry)),
		entrypersistence.NewEntryRepository,
		wire.Bind(new(entryusecases.EntryRepository), new(*entrypersistence.SimpleEntryRepository)),
		entryusecases.NewEntryService,
		wire.Bind(new(entryusecases.EntryService), new(*entryusecases.SimpleEntryService)),
		entryusecases.NewActionDispatcher,
		wire.Bind(new(entryusecases.ActionDispatcher), new(*entryusecases.SimpleActionDispatcher)),
		entryhttpapi.NewEntryController,
	)
	return nil, nil
}

func InitializeAuthController() (*authhttpapi.AuthController, error) {
	wire.Build(
		AuthServiceSet,
		authhttpapi.NewAuthController,
	)
	return nil, nil
}

func InitializeAuthGate() (httpserver.Middleware, error) {
	wire.Build(
		AuthServiceSet,
		authhttpapi.NewAuthGate,
	)
	return nil, nil
}

func InitializeSessionSweeper() (*authusecases.SessionSweeper, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		authpersistence.NewSessionRepository,
		wire.Bind(new(authusecases.SessionRepository), new(*authpersistence.SimpleSessionRepository)),
		authusecases.NewSessionSweeper,
	)
	return nil, nil
}
