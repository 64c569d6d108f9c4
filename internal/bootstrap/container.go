// Package bootstrap arma el grafo de dependencias que comparten la API y tallerctl:
// almacén de documentos según STORE_DRIVER, caché, casos de uso y Session Store.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/navigation"
	"github.com/jhoicas/Taller-api/internal/application/repair"
	"github.com/jhoicas/Taller-api/internal/application/session"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/cache"
	"github.com/jhoicas/Taller-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/Taller-api/internal/infrastructure/migrations"
	infrapdf "github.com/jhoicas/Taller-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Taller-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// Container dependencias de la aplicación ya conectadas.
type Container struct {
	Config *config.Config
	Log    *logger.Logger
	Loc    *time.Location

	Store repository.DocumentStore
	Cache cache.Client

	Profiles    *docstore.UserProfileRepo
	Credentials *docstore.CredentialRepo
	Repairs     *docstore.RepairRepo
	Sales       *docstore.SaleRepo
	Inventory   *docstore.InventoryRepo

	Auth       *auth.AuthUseCase
	Sessions   *session.Store
	Navigation *navigation.Machine

	RepairUC    *repair.UseCase
	InventoryUC *inventory.UseCase
	UserUC      *usecase.UserUseCase
	SaleUC      *usecase.SaleUseCase
	SummaryUC   *usecase.SummaryUseCase

	closers []func()
}

// Open conecta el almacén y la caché configurados y construye los casos de uso.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}
	c := &Container{Config: cfg, Log: log, Loc: Location(cfg.Report.Timezone, log)}

	store, closeStore, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	c.Store = store
	c.closers = append(c.closers, closeStore)

	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Cache = rc
		c.closers = append(c.closers, func() { _ = rc.Close() })
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché redis conectada")
	} else {
		c.Cache = cache.NewMemoryClient()
		log.Info().Msg("caché en memoria (REDIS_ADDR vacío)")
	}

	c.wire()
	return c, nil
}

// NewWithStore construye el contenedor sobre un almacén y caché ya creados (pruebas, modo memoria).
func NewWithStore(cfg *config.Config, store repository.DocumentStore, cc cache.Client, log *logger.Logger) *Container {
	if log == nil {
		log = logger.Nop()
	}
	c := &Container{Config: cfg, Log: log, Loc: Location(cfg.Report.Timezone, log), Store: store, Cache: cc}
	c.wire()
	return c
}

func (c *Container) wire() {
	log := c.Log
	c.Profiles = docstore.NewUserProfileRepository(c.Store, log)
	c.Credentials = docstore.NewCredentialRepository(c.Store, log)
	c.Repairs = docstore.NewRepairRepository(c.Store, log)
	c.Sales = docstore.NewSaleRepository(c.Store, log)
	c.Inventory = docstore.NewInventoryRepository(c.Store, log)

	c.Auth = auth.NewAuthUseCase(c.Credentials, c.Profiles, cache.NewRevocationList(c.Cache), auth.JWTConfig{
		Secret:     c.Config.JWT.Secret,
		ExpMinutes: c.Config.JWT.Expiration,
		Issuer:     c.Config.JWT.Issuer,
	}, log)

	c.Sessions = session.NewStore(c.Auth, c.Profiles, log, session.Options{})
	audit := c.Sessions.Subscribe(session.AuditHandler(log))
	c.Navigation = navigation.NewMachine(c.Sessions)

	reports := infrapdf.NewMarotoPDFGenerator(c.Config.Report.BusinessName, c.Loc)
	controller := repair.NewController(c.Repairs, c.Sales, log)
	c.RepairUC = repair.NewUseCase(c.Repairs, controller, c.Loc)
	c.InventoryUC = inventory.NewUseCase(c.Inventory, reports, c.Loc, log)
	c.UserUC = usecase.NewUserUseCase(c.Profiles, c.Credentials, c.Auth, log)
	c.SaleUC = usecase.NewSaleUseCase(c.Sales, c.Repairs, reports, c.Loc)

	var summer repository.FieldSummer
	if s, ok := c.Store.(repository.FieldSummer); ok {
		summer = s
	}
	c.SummaryUC = usecase.NewSummaryUseCase(c.Inventory, c.Profiles, c.Repairs, c.Sales, summer)

	// Se cierran antes que el almacén (orden inverso en Close).
	c.closers = append(c.closers, func() {
		c.Navigation.Close()
		audit.Unsubscribe()
		c.Sessions.Close()
	})
}

// Close libera recursos en orden inverso al de creación.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// OpenStore abre el almacén de documentos de STORE_DRIVER y, si STORE_AUTO_MIGRATE,
// aplica las migraciones pendientes.
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.DocumentStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return memory.NewDocumentStore(), func() {}, nil

	case config.StoreDriverSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := autoMigrate(ctx, cfg, db, migrations.DialectSQLite, log); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Str("path", cfg.Store.SQLitePath).Msg("almacén sqlite abierto")
		return sqlite.NewDocumentStore(db), func() { _ = db.Close() }, nil

	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		db := postgres.SQLDB(pool)
		err = autoMigrate(ctx, cfg, db, migrations.DialectPostgres, log)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Msg("almacén postgres conectado")
		return postgres.NewDocumentStore(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("driver de almacén desconocido %q", cfg.Store.Driver)
}

func autoMigrate(ctx context.Context, cfg *config.Config, db *sql.DB, dialect migrations.Dialect, log *logger.Logger) error {
	if !cfg.Store.AutoMigrate {
		return nil
	}
	return migrations.Up(ctx, db, dialect, log.Named("migrations"))
}

// OpenSQL abre la base relacional del driver configurado como *sql.DB (tallerctl migrate).
func OpenSQL(ctx context.Context, cfg *config.Config) (*sql.DB, migrations.Dialect, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, "", nil, err
		}
		return db, migrations.DialectSQLite, func() { _ = db.Close() }, nil
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, "", nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		db := postgres.SQLDB(pool)
		return db, migrations.DialectPostgres, func() { _ = db.Close(); pool.Close() }, nil
	}
	return nil, "", nil, fmt.Errorf("el driver %q no usa base SQL", cfg.Store.Driver)
}

// Location carga la zona horaria del negocio; UTC si no existe.
func Location(name string, log *logger.Logger) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("zona horaria desconocida, se usa UTC")
		return time.UTC
	}
	return loc
}
