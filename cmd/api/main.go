package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/messaging"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/estoque-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// storage agrupa los repositorios y el TxRunner del backend elegido.
type storage struct {
	txRunner  inventory.TxRunner
	positions repository.StockPositionRepository
	movements repository.StockMovementRepository
	products  repository.ProductRepository
	audit     repository.AuditRepository
	users     repository.UserRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStorage(ctx, cfg, log)
	defer st.close()

	// Caché y eventos son opcionales: sin URL el caso de uso usa implementaciones nulas.
	var cache inventory.PositionCache
	if cfg.Redis.URL != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		cache = infraredis.NewPositionCache(rdb, cfg.Redis.CacheTTL)
	}

	var publisher inventory.EventPublisher
	if cfg.AMQP.URL != "" {
		conn, ch, err := messaging.Connect(cfg.AMQP.URL, cfg.AMQP.Exchange, log.Component("amqp"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer conn.Close()
		defer ch.Close()
		publisher = messaging.NewPublisher(ch, cfg.AMQP.Exchange, cfg.App.Name, log.Component("events"))
	}

	stockUC := inventory.NewStockControlUseCase(
		st.txRunner, st.positions, st.movements,
		cache, publisher,
		log.Component("stock"),
	)
	stockUC.SetCacheReinvalidateDelay(cfg.Redis.ReinvalidateDelay)
	productUC := usecase.NewProductUseCase(st.products, st.audit, log.Component("products"))
	auditUC := usecase.NewAuditUseCase(st.audit)
	authUC := auth.NewAuthUseCase(st.users, st.audit, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))

	if created, err := authUC.EnsureInitialUser(ctx, cfg.App.AdminInitialPassword); err != nil {
		log.Fatal().Err(err).Msg("crear usuario inicial")
	} else if created {
		log.Warn().Msg("usuario admin creado con la contraseña de ADMIN_INITIAL_PASSWORD; cámbiela")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: productUC,
		StockUC:   stockUC,
		AuditUC:   auditUC,
		JWTSecret: cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}

// openStorage conecta el backend configurado. En postgres aplica las migraciones pendientes.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) *storage {
	if cfg.App.Storage == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			txRunner:  memory.NewTxRunner(s),
			positions: s.Positions(),
			movements: s.Movements(),
			products:  s.Products(),
			audit:     s.Audit(),
			users:     s.Users(),
			close:     func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	txRunner, err := postgres.NewTxRunner(pool, cfg.Inventory.TxIsolation, cfg.Inventory.TxRetries, log.Component("tx"))
	if err != nil {
		log.Fatal().Err(err).Msg("configurar transacciones")
	}
	return &storage{
		txRunner:  txRunner,
		positions: postgres.NewStockPositionRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		products:  postgres.NewProductRepository(pool),
		audit:     postgres.NewAuditRepository(pool),
		users:     postgres.NewUserRepository(pool),
		close:     pool.Close,
	}
}
