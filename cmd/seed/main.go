package main

import (
	"flag"

	"github.com/tallow-shop/storefront/internal/catalog"
	"github.com/tallow-shop/storefront/internal/config"
	"github.com/tallow-shop/storefront/internal/logger"
	"github.com/tallow-shop/storefront/internal/models"
	"github.com/tallow-shop/storefront/internal/repository"
	"github.com/tallow-shop/storefront/internal/service"
)

// sampleReviews 演示评价（仅在商品还没有已审核评价时写入）
var sampleReviews = map[string][]service.SubmitReviewInput{
	"tallow-lip-balm": {
		{AuthorName: "Hannah", Rating: 5, Title: "Best lip balm I've used", Body: "Lasts all day and the citrus scent is subtle."},
		{AuthorName: "Marcus", Rating: 4, Title: "Great for winter", Body: "Fixed my chapped lips in two days."},
	},
	"whipped-tallow-balm": {
		{AuthorName: "Priya", Rating: 5, Title: "Soft and light", Body: "Absorbs quickly, no greasy feeling after."},
	},
	"pure-beef-tallow": {
		{AuthorName: "Dale", Rating: 5, Title: "Clean rendering", Body: "No smell at all, great for cooking and soap making."},
	},
	"beard-balm": {
		{AuthorName: "Tom", Rating: 4, Title: "Tames the beard", Body: "Light hold and my skin under the beard is less itchy."},
	},
	"leather-conditioner": {
		{AuthorName: "Ruth", Rating: 5, Title: "Boots look new", Body: "Darkened the leather slightly, as expected."},
	},
}

func main() {
	var (
		approvePending bool
		withSamples    bool
	)
	flag.BoolVar(&approvePending, "approve-pending", false, "审核通过全部待审核评价")
	flag.BoolVar(&withSamples, "sample", true, "为没有评价的商品写入演示评价")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	log := logger.S()

	// 连接数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		log.Fatalw("seed_database_connect_failed", "error", err)
	}
	if err := models.AutoMigrate(); err != nil {
		log.Fatalw("seed_database_migrate_failed", "error", err)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalw("seed_catalog_load_failed", "path", cfg.Catalog.Path, "error", err)
	}

	repo := repository.NewReviewRepository(models.DB)
	reviews := service.NewReviewService(repo, cat, nil)

	if withSamples {
		seedSampleReviews(repo, reviews, cat)
	}
	if approvePending {
		approveAllPending(reviews)
	}
}

func seedSampleReviews(repo repository.ReviewRepository, reviews *service.ReviewService, cat *catalog.Catalog) {
	for _, product := range cat.Products() {
		samples, ok := sampleReviews[product.ID]
		if !ok {
			continue
		}
		stats, err := repo.RatingStats(product.ID)
		if err != nil {
			logger.Warnw("seed_review_stats_failed", "product_id", product.ID, "error", err)
			continue
		}
		if stats.Count > 0 {
			logger.Infow("seed_review_skip_existing", "product_id", product.ID, "count", stats.Count)
			continue
		}
		for _, input := range samples {
			input.ProductID = product.ID
			review, err := reviews.Submit(input)
			if err != nil {
				logger.Warnw("seed_review_submit_failed", "product_id", product.ID, "error", err)
				continue
			}
			if err := reviews.Approve(review.ID); err != nil {
				logger.Warnw("seed_review_approve_failed", "review_id", review.ID, "error", err)
			}
		}
		logger.Infow("seed_review_created", "product_id", product.ID, "count", len(samples))
	}
}

func approveAllPending(reviews *service.ReviewService) {
	pending, err := reviews.ListPending(0)
	if err != nil {
		logger.Errorw("seed_list_pending_failed", "error", err)
		return
	}
	approved := 0
	for _, review := range pending {
		if err := reviews.Approve(review.ID); err != nil {
			logger.Warnw("seed_review_approve_failed", "review_id", review.ID, "error", err)
			continue
		}
		approved++
	}
	logger.Infow("seed_pending_approved", "approved", approved, "pending", len(pending))
}
