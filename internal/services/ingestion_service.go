package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/Thomas-Grushka/vasya-bot/internal/bot"
	"github.com/Thomas-Grushka/vasya-bot/internal/clients/zenrows"
	"github.com/Thomas-Grushka/vasya-bot/internal/config"
	"github.com/Thomas-Grushka/vasya-bot/internal/events"
	"github.com/Thomas-Grushka/vasya-bot/internal/logger"
	"github.com/Thomas-Grushka/vasya-bot/internal/metrics"
	"github.com/Thomas-Grushka/vasya-bot/internal/repositories"
	"github.com/Thomas-Grushka/vasya-bot/internal/scraper"
	"github.com/Thomas-Grushka/vasya-bot/pkg/retry"
)

// IngestionService owns the two recurring jobs: the listing poll and the
// promotional broadcast. It is started and stopped through bus events
// published by the bot's /run and /stop commands.
type IngestionService struct {
	mu      sync.Mutex
	cron    *cron.Cron
	running bool

	poller       *Poller
	sender       *asyncSender
	targets      targetRepository
	promoTargets targetRepository
	notifier     notifier

	pollInterval  time.Duration
	promoInterval time.Duration
	retryAttempts int
	retryDelay    time.Duration
}

func NewIngestionService(bus EventBus.Bus, fetcher pageFetcher, targets targetRepository,
	promoTargets targetRepository, listings listingRepository, notifier notifier,
	cfg config.ScraperConfig) (*IngestionService, error) {

	sender := newAsyncSender(notifier)

	s := &IngestionService{
		poller:        NewPoller(fetcher, listings, notifier, sender),
		sender:        sender,
		targets:       targets,
		promoTargets:  promoTargets,
		notifier:      notifier,
		pollInterval:  cfg.PollInterval,
		promoInterval: cfg.PromoInterval,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
	}

	if err := bus.Subscribe(events.IngestionStartTopic, s.onStartRequested); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.IngestionStopTopic, s.onStopRequested); err != nil {
		return nil, err
	}

	go sender.Run()
	return s, nil
}

// Start schedules both jobs on a fresh cron instance. Calling it while
// already running is a no-op, so no job is ever registered twice.
func (s *IngestionService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		log.Info("ingestion is already running")
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.pollInterval), s.pollTick); err != nil {
		log.Errorf("failed to schedule poll job: %v", err)
		return
	}
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.promoInterval), s.promoTick); err != nil {
		log.Errorf("failed to schedule promo job: %v", err)
		return
	}
	c.Start()

	s.cron = c
	s.running = true
	log.Infof("ingestion started, poll every %v, promo every %v", s.pollInterval, s.promoInterval)
}

// Stop halts future ticks and waits for any in-flight tick to finish,
// so nothing keeps submitting to the sender after Stop returns.
func (s *IngestionService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	drained := s.cron.Stop()
	s.cron = nil
	s.running = false

	<-drained.Done()
	log.Info("ingestion stopped")
}

// Shutdown stops the jobs and drains the async sender. Ticks are fully
// drained first, so the sender's queue only closes once nobody can
// submit to it anymore.
func (s *IngestionService) Shutdown() {
	s.Stop()
	s.sender.Stop()
}

func (s *IngestionService) onStartRequested(event events.IngestionStart) {
	log.Infof("ingestion start requested by %v", event.RequestedBy)
	s.Start()
}

func (s *IngestionService) onStopRequested(event events.IngestionStop) {
	log.Infof("ingestion stop requested by %v", event.RequestedBy)
	s.Stop()
}

// pollTick checks every active target in sequence. One target's failure,
// even after all retries, never stops the rest of the tick.
func (s *IngestionService) pollTick() {

	start := time.Now()
	ctx := context.Background()

	targets, err := s.targets.GetActive(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get targets: %v", err)
		return
	}

	for _, target := range targets {
		err = retry.Do(ctx, func() error {
			return s.poller.CheckTarget(ctx, target)
		}, s.retryAttempts, s.retryDelay)

		if err != nil {
			var exhausted *retry.ExhaustedError
			if errors.As(err, &exhausted) {
				metrics.RetriesExhaustedCounter.Inc()
			}
			log.WithField(logger.ErrorTypeField, errorType(err)).
				Errorf("check failed for target %v: %v", target.ID, err)
		}
	}

	metrics.PollDuration.Observe(time.Since(start).Seconds())
}

func (s *IngestionService) promoTick() {

	targets, err := s.promoTargets.GetActive(context.Background())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get targets: %v", err)
		return
	}

	for _, target := range targets {
		if err = s.notifier.SendPromo(target.ChatID); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
				Errorf("failed to send promo to chat %v: %v", target.ChatID, err)
			continue
		}
		metrics.NotificationsCounter.WithLabelValues("promo").Inc()
	}
}

func errorType(err error) string {
	var upstream *zenrows.UpstreamError
	var parse *scraper.ParseError
	var conflict *repositories.ConflictError
	var delivery *bot.DeliveryError

	switch {
	case errors.As(err, &upstream):
		return logger.ErrorTypeZenrows
	case errors.As(err, &parse):
		return logger.ErrorTypeParse
	case errors.As(err, &conflict):
		return logger.ErrorTypeDb
	case errors.As(err, &delivery):
		return logger.ErrorTypeTgApi
	default:
		return "unknown"
	}
}
