package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"bookstore-backoffice/internal/config"
	bookHandler "bookstore-backoffice/internal/domains/book/handler"
	bookRepo "bookstore-backoffice/internal/domains/book/repository"
	bookService "bookstore-backoffice/internal/domains/book/service"
	clientRepo "bookstore-backoffice/internal/domains/client/repository"
	orderHandler "bookstore-backoffice/internal/domains/order/handler"
	orderRepo "bookstore-backoffice/internal/domains/order/repository"
	orderService "bookstore-backoffice/internal/domains/order/service"
	shopRepo "bookstore-backoffice/internal/domains/shop/repository"
	userRepo "bookstore-backoffice/internal/domains/user/repository"
	infraCache "bookstore-backoffice/internal/infrastructure/cache"
	"bookstore-backoffice/internal/infrastructure/database"
	"bookstore-backoffice/internal/infrastructure/events"
	"bookstore-backoffice/pkg/cache"
)

// Container holds the full dependency graph. Initialization order matters:
// config, then infrastructure, then repositories, services and handlers.
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache
	Sink   orderService.EventSink

	BookRepo   bookRepo.RepositoryInterface
	UserRepo   userRepo.RepositoryInterface
	ClientRepo clientRepo.RepositoryInterface
	ShopRepo   shopRepo.RepositoryInterface
	OrderRepo  orderRepo.RepositoryInterface

	BookService  bookService.ServiceInterface
	OrderService orderService.ServiceInterface

	BookHandler  *bookHandler.Handler
	OrderHandler *orderHandler.Handler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	// Step 1: configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	// Step 2: database
	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// Step 3: cache. Redis being down degrades to uncached reads.
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		log.Printf("redis connection failed, falling back to no cache: %v", err)
		c.Cache = cache.NewNoop()
	} else {
		c.Cache = redisCache
	}

	// Step 4: event sink
	if cfg.Queue.Enabled {
		c.Sink = events.NewAsynqSink(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	} else {
		c.Sink = orderService.NewNoopSink()
	}

	// Steps 5-7: repositories, services, handlers
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.ClientRepo = clientRepo.NewPostgresRepository(pool)
	c.ShopRepo = shopRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.BookService = bookService.NewService(c.BookRepo)

	validator := orderService.NewValidator(c.BookRepo)
	reservations := orderService.NewReservationManager(c.BookRepo)

	c.OrderService = orderService.NewService(
		c.OrderRepo,
		c.UserRepo,
		c.ClientRepo,
		c.ShopRepo,
		validator,
		reservations,
		c.Cache,
		c.Sink,
	)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.OrderHandler = orderHandler.NewHandler(c.OrderService)
}

// Close releases infrastructure resources in reverse dependency order.
func (c *Container) Close() {
	if sink, ok := c.Sink.(*events.AsynqSink); ok {
		if err := sink.Close(); err != nil {
			log.Printf("failed to close event sink: %v", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("failed to close redis: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}
}
