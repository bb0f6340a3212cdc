package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/catalog"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/config"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/db"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/events"
	httpapi "github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/http"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/order"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/pricing"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/storage"
	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/submit"
)

func main() {
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lshortfile)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var database *sql.DB
	if cfg.StorageBackend == config.StoragePostgres || cfg.CatalogSource == config.CatalogPostgres {
		if cfg.DatabaseDSN == "" {
			logger.Fatal("DATABASE_DSN not set")
		}
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("run migrations: %v", err)
		}

		var err error
		database, err = db.Open(cfg.DatabaseDSN)
		if err != nil {
			logger.Fatalf("open db: %v", err)
		}
		defer database.Close()
	}

	store := newStorage(cfg, database, logger)
	cat := newCatalog(ctx, cfg, logger)
	submitter, closeSubmitter := newSubmitter(cfg, database, logger)
	defer closeSubmitter()

	pricingCfg := pricing.Config{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatDeliveryFee:       cfg.FlatDeliveryFee,
	}

	sessions := httpapi.NewSessions(cat, store, cfg.CartKeyPrefix, logger)
	cartHandler := httpapi.NewCartHandler(sessions, pricingCfg, order.NewBuilder(), submitter, cfg.SubmitTimeout, logger)
	catalogHandler := httpapi.NewCatalogHandler(cat)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(cartHandler, catalogHandler),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
}

func newStorage(cfg config.Config, database *sql.DB, logger *log.Logger) storage.Store {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		return storage.NewPostgres(database)
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Fatalf("ping redis: %v", err)
		}
		return storage.NewRedis(client)
	case config.StorageMemory:
		logger.Printf("using in-memory cart storage; carts do not survive restarts")
		return storage.NewMemory()
	default:
		logger.Fatalf("unknown storage backend %q", cfg.StorageBackend)
		return nil
	}
}

func newCatalog(ctx context.Context, cfg config.Config, logger *log.Logger) catalog.Accessor {
	switch cfg.CatalogSource {
	case config.CatalogSheets:
		if cfg.SheetsURL == "" {
			logger.Fatal("SHEETS_URL not set")
		}
		sheets := catalog.NewSheetsCatalog(cfg.SheetsURL, nil)
		if err := sheets.Refresh(ctx); err != nil {
			logger.Fatalf("load products from sheets: %v", err)
		}
		return sheets
	case config.CatalogPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Fatalf("open catalog pool: %v", err)
		}
		return catalog.NewPostgresRepository(pool)
	case config.CatalogStatic:
		return catalog.NewStatic(seedProducts())
	default:
		logger.Fatalf("unknown catalog source %q", cfg.CatalogSource)
		return nil
	}
}

func newSubmitter(cfg config.Config, database *sql.DB, logger *log.Logger) (submit.Submitter, func()) {
	switch cfg.SubmitMode {
	case config.SubmitForm:
		if cfg.SubmitEndpoint == "" {
			logger.Fatal("SUBMIT_ENDPOINT not set")
		}
		return submit.NewFormSubmitter(cfg.SubmitEndpoint, &http.Client{Timeout: cfg.SubmitTimeout}), func() {}
	case config.SubmitRabbit:
		conn, err := events.DialRabbit(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("dial rabbitmq: %v", err)
		}

		var seq events.SequenceSource
		if database != nil {
			seq = events.NewSequenceRepository(database)
		}

		publisher, err := events.NewRabbitSubmitter(conn, seq, logger)
		if err != nil {
			logger.Fatalf("create order publisher: %v", err)
		}
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				logger.Printf("publisher close error: %v", err)
			}
			_ = conn.Close()
		}
	case config.SubmitLog:
		return submit.NewLogSubmitter(logger), func() {}
	default:
		logger.Fatalf("unknown submit mode %q", cfg.SubmitMode)
		return nil, nil
	}
}

// seedProducts is the demo catalog used when no sheets URL or database is
// configured.
func seedProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID: 1, Name: "Sunflower Tote Bag", Price: 450, Category: "bags",
			Description: "Hand-crocheted tote with a sunflower motif.",
			Colors:      []string{"Yellow", "Cream"}, Sizes: []string{"Regular", "Large"},
			Stock: 5, Featured: true,
		},
		{
			ID: 2, Name: "Daisy Bucket Hat", Price: 350, Category: "hats",
			Description: "Soft cotton bucket hat with daisy appliqué.",
			Colors:      []string{"White", "Sage", "Lilac"}, Sizes: []string{"S/M", "L/XL"},
			Stock: 8, Featured: true, New: true,
		},
		{
			ID: 3, Name: "Granny Square Cardigan", Price: 1200, Category: "apparel",
			Description: "Patchwork cardigan in classic granny squares.",
			Colors:      []string{"Multicolor"}, Sizes: []string{"S", "M", "L"},
			Stock: 2, New: true,
		},
		{
			ID: 4, Name: "Mini Octopus Plushie", Price: 150, Category: "plushies",
			Description: "Palm-sized amigurumi octopus.",
			Colors:      []string{"Pink", "Blue", "Mint"}, Sizes: []string{"One Size"},
			Stock: 15,
		},
	}
}
