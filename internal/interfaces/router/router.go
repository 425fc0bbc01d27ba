package router

import (
	invsvc "masonry-backend/internal/application/investments"
	"masonry-backend/internal/application/masonry"
	notifsvc "masonry-backend/internal/application/notifications"
	"masonry-backend/internal/config"
	"masonry-backend/internal/infrastructure/database"
	"masonry-backend/internal/infrastructure/storage"
	healthhandler "masonry-backend/internal/interfaces/handlers/health"
	invhandler "masonry-backend/internal/interfaces/handlers/investments"
	notifhandler "masonry-backend/internal/interfaces/handlers/notifications"
	uploadhandler "masonry-backend/internal/interfaces/handlers/uploads"
	wallhandler "masonry-backend/internal/interfaces/handlers/walls"
	"masonry-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with global middleware, the database and
// (when configured) the redis-backed notification queue.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{AllowedSuffix: cfg.FrontendSuffix}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	var rdb *redis.Client
	var notifications *notifsvc.Service
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
		notifications = &notifsvc.Service{RDB: rdb}
	}

	masonrySvc := &masonry.Service{DB: db}
	investmentsSvc := &invsvc.Service{DB: db}
	storageCfg := storage.Config{
		UploadFolder:      cfg.UploadFolder,
		AllowedExtensions: cfg.AllowedExtensions,
	}

	walls := &wallhandler.Handlers{Service: masonrySvc}
	investments := &invhandler.Handlers{Service: investmentsSvc}
	uploads := &uploadhandler.Handlers{
		Service:       masonrySvc,
		Notifications: notifications,
		Storage:       storageCfg,
	}
	health := &healthhandler.Handlers{DB: db}

	api := app.Group("/api/v1")
	api.Get("/health", health.Health)

	api.Get("/investments", investments.List)
	api.Post("/investments", investments.Create)
	api.Get("/investments/:investmentID", investments.Get)
	api.Put("/investments/:investmentID", investments.Rename)
	api.Delete("/investments/:investmentID", investments.Delete)

	api.Get("/investments/:investmentID/walls/categories", walls.Categories)
	api.Get("/investments/:investmentID/walls", walls.ListWalls)
	api.Post("/investments/:investmentID/walls", walls.CreateWall)
	api.Get("/walls/:wallID", walls.GetWall)
	api.Put("/walls/:wallID", walls.EditWall)
	api.Delete("/walls/:wallID", walls.DeleteWall)
	api.Get("/walls/:wallID/areas", walls.GetAreaFields)
	api.Get("/walls/:wallID/left-to-sale", walls.GetLeftToSale)

	api.Post("/walls/:wallID/holes", walls.AddHole)
	api.Put("/holes/:holeID", walls.EditHole)
	api.Delete("/holes/:holeID", walls.DeleteHole)
	api.Post("/walls/:wallID/processing", walls.AddProcessing)
	api.Put("/processing/:processingID", walls.EditProcessing)
	api.Delete("/processing/:processingID", walls.DeleteProcessing)

	api.Post("/investments/:investmentID/import/:kind", uploads.ImportFile)

	if notifications != nil {
		notif := &notifhandler.Handlers{Service: notifications}
		api.Get("/workers/:workerID/notifications", notif.Next)
	}

	return app, db, rdb, nil
}
