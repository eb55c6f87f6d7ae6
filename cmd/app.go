package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/payroll-bridge/internal"
	"github.com/frahmantamala/payroll-bridge/internal/alterdata"
	"github.com/frahmantamala/payroll-bridge/internal/budget"
	"github.com/frahmantamala/payroll-bridge/internal/company"
	companyPostgres "github.com/frahmantamala/payroll-bridge/internal/company/postgres"
	"github.com/frahmantamala/payroll-bridge/internal/core/events"
	"github.com/frahmantamala/payroll-bridge/internal/employee"
	"github.com/frahmantamala/payroll-bridge/internal/flash"
	"github.com/frahmantamala/payroll-bridge/internal/movement"
	"github.com/frahmantamala/payroll-bridge/internal/submission"
	submissionPostgres "github.com/frahmantamala/payroll-bridge/internal/submission/postgres"
	"github.com/frahmantamala/payroll-bridge/pkg/logger"
)

// Dependencies is everything the commands wire together. SQL and Gorm are nil without a database.
type Dependencies struct {
	Config      *internal.Config
	Logger      *slog.Logger
	SQL         *sqlx.DB
	Gorm        *gorm.DB
	EventBus    *events.EventBus
	Flash       *flash.Client
	AlterData   *alterdata.Client
	Companies   *company.Service
	Employees   *employee.Service
	Budgets     *budget.Service
	EventCache  *movement.EventCache
	Movements   *movement.Service
	Submissions *submission.Service
}

func initializeDependencies() (*Dependencies, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.LoggerWrapper()
	deps := &Dependencies{
		Config:   cfg,
		Logger:   lg,
		EventBus: events.NewEventBus(lg),
	}

	var aliasRepo company.AliasRepositoryAPI
	var submissionRepo submission.RepositoryAPI
	if cfg.Database.Enabled() {
		sqlDB, gormDB, err := initDB(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.SQL = sqlDB
		deps.Gorm = gormDB
		aliasRepo = companyPostgres.NewAliasRepository(gormDB)
		submissionRepo = submissionPostgres.NewSubmissionRepository(gormDB)
	} else {
		lg.Warn("no database configured; submission audit log and stored aliases are disabled")
	}

	deps.Flash = flash.NewClient(cfg.Flash, lg)
	deps.AlterData = alterdata.NewClient(cfg.AlterData, lg)

	deps.Companies = company.NewService(deps.Flash, deps.AlterData, aliasRepo, cfg.Sync.CompanyAliases, lg)
	deps.Employees = employee.NewService(deps.Flash, lg)
	deps.Budgets = budget.NewService(deps.Flash, cfg.Sync.EnrichConcurrency, lg)

	deps.Submissions = submission.NewService(submissionRepo, lg)
	if deps.Submissions.Enabled() {
		submission.NewEventHandler(deps.Submissions, lg).RegisterEventHandlers(deps.EventBus)
	}

	deps.EventCache = movement.NewEventCache(cfg.Sync.EventCacheTTL)
	deps.Movements = movement.NewService(deps.Companies, deps.AlterData, deps.EventCache, deps.EventBus, lg)

	return deps, nil
}

const closeTimeout = 30 * time.Second

// withDependencies builds the dependencies, runs fn and closes them whatever fn returns.
func withDependencies(initDeps func() (*Dependencies, error), fn func(deps *Dependencies) error) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		deps.Close(ctx)
	}()
	return fn(deps)
}

// Close drains in-flight event handlers, then closes the database.
func (d *Dependencies) Close(ctx context.Context) {
	if err := d.EventBus.Wait(ctx); err != nil {
		d.Logger.Warn("event handlers still running at shutdown", "error", err)
	}
	if d.SQL != nil {
		if err := d.SQL.Close(); err != nil {
			d.Logger.Error("database close error", "error", err)
		}
	}
}

// initDB opens the pgx pool through sqlx and hands the same pool to gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: dbConn.DB}), &gorm.Config{
		Logger:  gormLogger.Default.LogMode(gormLogger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return dbConn, gormDB, nil
}
