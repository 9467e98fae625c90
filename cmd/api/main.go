package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/clinic-inventory-api/docs"
	"github.com/jhoicas/clinic-inventory-api/internal/application/analytics"
	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/auth"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/inventory"
	"github.com/jhoicas/clinic-inventory-api/internal/application/ports"
	"github.com/jhoicas/clinic-inventory-api/internal/application/prediction"
	"github.com/jhoicas/clinic-inventory-api/internal/application/usecase"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
	infraai "github.com/jhoicas/clinic-inventory-api/internal/infrastructure/ai"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/cache"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/clinic-inventory-api/internal/infrastructure/pdf"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/postgres"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/clinic-inventory-api/internal/interfaces/http"
	"github.com/jhoicas/clinic-inventory-api/pkg/config"
	"github.com/jhoicas/clinic-inventory-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()

	// Almacén de colecciones y auditoría: memoria (desarrollo) o PostgreSQL.
	var (
		store     repository.CollectionStore
		auditRepo repository.AuditLogRepository
	)
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		store = postgres.NewDocumentStore(pool, postgres.NewTxRunner(pool))
		auditRepo = postgres.NewAuditLogRepository(pool)
	default:
		store = memory.NewDocumentStore()
		auditRepo = memory.NewAuditLogRepository()
	}

	authenticator := auth.NewBcryptAuthenticator(0)
	cat := catalog.New(store, func() (catalog.Snapshot, error) {
		return seed.Dataset(entity.Today(), authenticator)
	}, log.Component("catalog"))
	if err := cat.Load(ctx, cfg.Store.SeedOnEmpty); err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}

	recorder := audit.NewRecorder(auditRepo, log.Component("audit"))

	// Servicio de predicción y caché opcional en Redis.
	predictionSvc, err := infraai.NewPredictionService(cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("servicio de predicción")
	}
	var predictionCache ports.PredictionCache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, predicciones solo en memoria")
		} else {
			defer client.Close()
			predictionCache = cache.NewPredictionCache(client, time.Duration(cfg.Redis.TTLMinutes)*time.Minute)
		}
	}

	predictionUC := prediction.NewUseCase(cat, predictionSvc, predictionCache, recorder, log.Component("prediction"),
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	dashboardUC := analytics.NewDashboardUseCase(cat, predictionUC)
	authUC := auth.NewAuthUseCase(cat, authenticator, recorder, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionSystemStartup,
		Details: "Application initialized.",
		UserID:  "system",
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: 90 * time.Second, // la corrida de predicción puede tardar hasta el timeout del proveedor
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if specPath, err := writeSwaggerSpec(); err != nil {
		log.Warn().Err(err).Msg("swagger deshabilitado")
	} else {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: specPath,
			Path:     "docs",
			Title:    "Clinic Inventory API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       usecase.NewUserUseCase(cat, authenticator, recorder),
		ProductUC:    usecase.NewProductUseCase(cat, recorder),
		BranchUC:     usecase.NewBranchUseCase(cat, recorder, log.Component("branches")),
		SupplierUC:   usecase.NewSupplierUseCase(cat, recorder),
		StockUC:      inventory.NewStockUseCase(cat, recorder),
		ReorderUC:    inventory.NewReorderUseCase(cat, infrapdf.NewMarotoPDFGenerator(), recorder),
		DashboardUC:  dashboardUC,
		PredictionUC: predictionUC,
		AuditQueryUC: audit.NewQueryUseCase(auditRepo),
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := cat.Flush(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("catálogo con cambios sin guardar")
	}

	log.Info().Msg("aplicación detenida")
}

// writeSwaggerSpec vuelca el documento registrado por el paquete docs a un archivo temporal
// que sirve el middleware de swagger.
func writeSwaggerSpec() (string, error) {
	doc := docs.SwaggerInfo.ReadDoc()
	path := filepath.Join(os.TempDir(), "clinic-inventory-swagger.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
