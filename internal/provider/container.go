package provider

import (
	"errors"
	"fmt"

	"github.com/tallow-shop/storefront/internal/cache"
	"github.com/tallow-shop/storefront/internal/cart"
	"github.com/tallow-shop/storefront/internal/catalog"
	"github.com/tallow-shop/storefront/internal/checkout"
	"github.com/tallow-shop/storefront/internal/config"
	"github.com/tallow-shop/storefront/internal/logger"
	"github.com/tallow-shop/storefront/internal/models"
	"github.com/tallow-shop/storefront/internal/queue"
	"github.com/tallow-shop/storefront/internal/repository"
	"github.com/tallow-shop/storefront/internal/service"

	"github.com/spf13/viper"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Catalog
	Catalog        *catalog.Catalog
	CatalogWatcher *viper.Viper

	// Repositories
	CartSlotRepo repository.CartSlotRepository
	ReviewRepo   repository.ReviewRepository

	// Cart persistence / checkout
	CartSlot         cart.Slot
	CheckoutProvider checkout.Provider

	// Services
	CatalogService *service.CatalogService
	SearchService  *service.SearchService
	CartService    *service.CartService
	ReviewService  *service.ReviewService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 加载商品目录
	if err := c.initCatalog(); err != nil {
		return nil, err
	}

	// 2. 初始化 Repositories
	c.initRepositories()

	// 3. 购物车槽位与结算方式
	c.initCart()

	// 4. 初始化 Services
	c.initServices()

	return c, nil
}

func (c *Container) initCatalog() error {
	cat, err := catalog.Load(c.Config.Catalog.Path)
	if err != nil {
		logger.Errorw("provider_load_catalog_failed", "path", c.Config.Catalog.Path, "error", err)
		return err
	}
	c.Catalog = cat
	logger.Infow("provider_catalog_loaded", "path", c.Config.Catalog.Path, "products", cat.Len())

	if c.Config.Catalog.Watch {
		watcher, err := catalog.Watch(c.Config.Catalog.Path, cat)
		if err != nil {
			logger.Warnw("provider_watch_catalog_failed", "path", c.Config.Catalog.Path, "error", err)
			return nil
		}
		c.CatalogWatcher = watcher
	}
	return nil
}

func (c *Container) initRepositories() {
	db := models.DB
	c.CartSlotRepo = repository.NewCartSlotRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
}

func (c *Container) initCart() {
	c.CartSlot = selectCartSlot(c.Config.Cart, c.CartSlotRepo)

	p, err := checkout.NewProvider(c.Config.Checkout)
	if err != nil {
		// 结算不可用不影响浏览与购物车
		logger.Warnw("provider_init_checkout_failed", "provider", c.Config.Checkout.Provider, "error", err)
		return
	}
	c.CheckoutProvider = p
}

func (c *Container) initServices() {
	c.CatalogService = service.NewCatalogService(c.Catalog)
	c.SearchService = service.NewSearchService(c.Catalog)
	c.CartService = service.NewCartService(c.Catalog, c.CartSlot, c.CheckoutProvider, service.CartServiceOptions{
		SlotPrefix:  c.Config.Cart.SlotPrefix,
		SessionIdle: c.Config.Cart.SessionIdle(),
	})

	var notifier service.ReviewNotifier
	if c.QueueClient.Enabled() {
		notifier = c.QueueClient
	}
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.Catalog, notifier)
}

// selectCartSlot 按配置选择槽位后端；redis 未启用时回退到数据库
func selectCartSlot(cfg config.CartConfig, repo repository.CartSlotRepository) cart.Slot {
	switch cfg.SlotBackend {
	case config.SlotBackendMemory:
		logger.Warnw("provider_cart_slot_memory", "hint", "carts are lost on restart")
		return cart.NewMemorySlot()
	case config.SlotBackendRedis:
		if cache.Enabled() {
			return cache.NewCartSlot(cache.Client(), cache.Prefix(), cfg.SlotTTL())
		}
		logger.Warnw("provider_cart_slot_redis_disabled", "fallback", config.SlotBackendDatabase)
	}
	return repo
}

// Close 释放队列客户端与 Redis 连接
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close queue client: %w", err))
		}
	}
	if err := cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	return errors.Join(errs...)
}
