package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/locks"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/readmodel"
	"dispatch/internal/adapters/out/redislock"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type reader interface {
	queries.GroupReader
	queries.AgentReader
}

type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	policy     services.CapacityPolicy
	uowFactory ports.UnitOfWorkFactory
	reader     reader
	locker     ports.Locker
	closers    []func() error
}

// NewCompositionRoot opens the configured storage and lock backend.
// Close releases them.
func NewCompositionRoot(config Config, log *slog.Logger) (*CompositionRoot, error) {
	if log == nil {
		log = slog.Default()
	}
	policy, err := services.NewCapacityPolicy(config.MaxActiveGroups)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{config: config, logger: log, policy: policy}

	switch config.Storage {
	case StorageMemory:
		store := memory.NewStore()
		root.uowFactory = memory.NewUnitOfWorkFactory(store)
		root.reader = memory.NewReadModel(store)
	case StoragePostgres:
		db, err := OpenDatabase(config)
		if err != nil {
			return nil, err
		}
		root.closers = append(root.closers, closeDatabase(db))
		root.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		root.reader = readmodel.NewReadModel(db)
	default:
		return nil, fmt.Errorf("unknown storage %q", config.Storage)
	}

	if err = root.openLocker(); err != nil {
		_ = root.Close()
		return nil, err
	}

	log.Info("composition root ready",
		"storage", config.Storage,
		"redis_locks", config.RedisAddr != "",
		"max_active_groups", policy.MaxActiveGroups())
	return root, nil
}

func (c *CompositionRoot) openLocker() error {
	if c.config.RedisAddr == "" {
		c.locker = locks.NewKeyedLocker()
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.config.RedisAddr,
		Password: c.config.RedisPassword,
		DB:       c.config.RedisDB,
	})
	c.closers = append(c.closers, client.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.config.RedisAddr, err)
	}

	locker, err := redislock.NewLocker(client, c.config.LockTTL, c.config.LockWait)
	if err != nil {
		return err
	}
	c.locker = locker
	return nil
}

// Close releases connections in reverse opening order.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// OpenDatabase connects gorm to PostgreSQL.
func OpenDatabase(config Config) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(config.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

func (c *CompositionRoot) CreateCreateGroupCommandHandler() commands.CreateGroupCommandHandler {
	return commands.NewCreateGroupCommandHandler(c.uow(), c.locker, c.policy, c.logger)
}

func (c *CompositionRoot) CreateCreateGroupAndAssignCommandHandler() commands.CreateGroupAndAssignCommandHandler {
	return commands.NewCreateGroupAndAssignCommandHandler(c.uow(), c.locker, c.policy, c.logger)
}

func (c *CompositionRoot) CreateTransitionGroupStatusCommandHandler() commands.TransitionGroupStatusCommandHandler {
	return commands.NewTransitionGroupStatusCommandHandler(c.uow(), c.locker, c.logger)
}

func (c *CompositionRoot) CreateAddOrderToGroupCommandHandler() commands.AddOrderToGroupCommandHandler {
	return commands.NewAddOrderToGroupCommandHandler(c.uow(), c.locker, c.logger)
}

func (c *CompositionRoot) CreateBulkAddOrdersToGroupCommandHandler() commands.BulkAddOrdersToGroupCommandHandler {
	return commands.NewBulkAddOrdersToGroupCommandHandler(c.uow(), c.locker, c.logger)
}

func (c *CompositionRoot) CreateChangeOrderGroupCommandHandler() commands.ChangeOrderGroupCommandHandler {
	return commands.NewChangeOrderGroupCommandHandler(c.uow(), c.locker, c.logger)
}

func (c *CompositionRoot) CreateRegisterOrderCommandHandler() commands.RegisterOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterOrderCommandHandler(f, c.locker, c.logger)
}

func (c *CompositionRoot) CreateRegisterAgentCommandHandler() commands.RegisterAgentCommandHandler {
	var f commands.AgentUoWFactory = FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterAgentCommandHandler(f)
}

func (c *CompositionRoot) CreateGetGroupQueryHandler() queries.GetGroupQueryHandler {
	return queries.NewGetGroupQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateListAvailableGroupsQueryHandler() queries.ListAvailableGroupsQueryHandler {
	return queries.NewListAvailableGroupsQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateListAgentsQueryHandler() queries.ListAgentsQueryHandler {
	return queries.NewListAgentsQueryHandler(c.reader, c.policy)
}

// NewRouter wires every handler behind the HTTP surface.
func (c *CompositionRoot) NewRouter() (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		CreateGroup:          c.CreateCreateGroupCommandHandler(),
		CreateGroupAndAssign: c.CreateCreateGroupAndAssignCommandHandler(),
		TransitionStatus:     c.CreateTransitionGroupStatusCommandHandler(),
		AddOrder:             c.CreateAddOrderToGroupCommandHandler(),
		BulkAddOrders:        c.CreateBulkAddOrdersToGroupCommandHandler(),
		ChangeOrderGroup:     c.CreateChangeOrderGroupCommandHandler(),
		RegisterOrder:        c.CreateRegisterOrderCommandHandler(),
		RegisterAgent:        c.CreateRegisterAgentCommandHandler(),
		GetGroup:             c.CreateGetGroupQueryHandler(),
		ListGroups:           c.CreateListAvailableGroupsQueryHandler(),
		ListAgents:           c.CreateListAgentsQueryHandler(),
	}, c.logger)

	return httpin.NewRouter(server, httpin.RouterConfig{
		RateLimitRPS:   c.config.RateLimitRPS,
		RateLimitBurst: c.config.RateLimitBurst,
		Logger:         c.logger,
	})
}

func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateListAgentsQueryHandler(),
		c.policy,
		c.config.CapacityAuditSchedule,
		c.logger,
	)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncAgentUoWFactory func() commands.AgentUoW

func (f FuncAgentUoWFactory) Create() commands.AgentUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
