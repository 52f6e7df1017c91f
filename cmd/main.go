package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/Thomas-Grushka/vasya-bot/internal/bot"
	"github.com/Thomas-Grushka/vasya-bot/internal/clients/zenrows"
	"github.com/Thomas-Grushka/vasya-bot/internal/config"
	"github.com/Thomas-Grushka/vasya-bot/internal/logger"
	"github.com/Thomas-Grushka/vasya-bot/internal/metrics"
	"github.com/Thomas-Grushka/vasya-bot/internal/repositories"
	"github.com/Thomas-Grushka/vasya-bot/internal/services"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	targets := repositories.NewTargetsRepository(dbContext.DB)
	cachedTargets := repositories.NewCachedTargets(targets)
	listings := repositories.NewListingsRepository(dbContext.DB)
	users := repositories.NewUsersRepository(dbContext.DB)

	bus := EventBus.New()

	tgbot, err := bot.NewBot(cfg.Bot.Token, bus, users)
	if err != nil {
		log.Fatalf("can't create bot: %v", err)
	}
	go tgbot.Run()

	fetcher := zenrows.NewClient(cfg.Scraper.ZenrowsAPIKey)
	fetcher.SetBaseURL(cfg.Scraper.ZenrowsBaseURL)
	fetcher.SetRateLimit(cfg.Scraper.MaxRequestsPerSecond)

	ingestion, err := services.NewIngestionService(bus, fetcher, targets, cachedTargets, listings, tgbot, cfg.Scraper)
	if err != nil {
		log.Fatalf("can't create ingestion service: %v", err)
	}
	ingestion.Start()

	<-ctx.Done()

	log.Info("Shutting down services...")
	ingestion.Shutdown()
	tgbot.Stop()
	log.Info("Services stopped.")
}
