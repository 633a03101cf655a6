// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"kuwait_portal_backend/internal/app"
	"kuwait_portal_backend/internal/article"
	"kuwait_portal_backend/internal/config"
	"kuwait_portal_backend/internal/firebase"
	"kuwait_portal_backend/internal/jobs"
	"kuwait_portal_backend/internal/listing"
	"kuwait_portal_backend/internal/notification"
	"kuwait_portal_backend/internal/payment"
	"kuwait_portal_backend/internal/platform/database"
	"kuwait_portal_backend/internal/platform/elasticsearch"
	"kuwait_portal_backend/internal/platform/logger"
	"kuwait_portal_backend/internal/platform/storage"
	"kuwait_portal_backend/internal/shared"
	"kuwait_portal_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		elasticsearch.NewClient,
		storage.NewMinIOService,
		wire.Bind(new(storage.Service), new(*storage.MinIOService)),
		provideCleanup,

		// Firebase
		firebase.NewFirebaseService,

		// Profiles
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(payment.ProfileStore), new(user.Repository)),
		user.NewHandler,

		// Notifications
		notification.NewGORMRepository,
		notification.NewService,
		notification.NewHandler,

		// Listings
		listing.NewGORMRepository,
		listing.NewSearchIndexer,
		listing.NewService,
		listing.NewHandler,

		// Articles
		article.NewGORMRepository,
		article.NewService,
		article.NewHandler,

		// Payments
		payment.NewStripeClient,
		payment.NewService,
		payment.NewHandler,

		// Jobs
		jobs.NewPlacementExpiryJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
