package services

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Thomas-Grushka/vasya-bot/internal/entities"
	"github.com/Thomas-Grushka/vasya-bot/internal/metrics"
	"github.com/Thomas-Grushka/vasya-bot/internal/scraper"
)

type pageFetcher interface {
	GetPage(ctx context.Context, url string) (string, error)
}

type targetRepository interface {
	GetActive(ctx context.Context) ([]entities.Target, error)
}

type listingRepository interface {
	KnownExternalIDs(ctx context.Context, targetID int) (map[string]struct{}, error)
	Add(ctx context.Context, listing *entities.Listing) error
}

type notifier interface {
	SendListing(chatID int64, text string) error
	SendPromo(chatID int64) error
}

// Poller runs the per-target ingestion workflow: detect the newest
// unseen listing on the target's index page, parse its detail page,
// store it and notify the target's chat.
type Poller struct {
	fetcher  pageFetcher
	listings listingRepository
	notifier notifier
	sender   *asyncSender
}

func NewPoller(fetcher pageFetcher, listings listingRepository, notifier notifier, sender *asyncSender) *Poller {
	return &Poller{fetcher: fetcher, listings: listings, notifier: notifier, sender: sender}
}

// CheckTarget performs one check. Finding nothing new is the normal
// outcome and completes without side effects. The known-ID set is read
// fresh on every call, and the listing is stored before anything is
// sent, so a listing can never be delivered twice.
func (p *Poller) CheckTarget(ctx context.Context, target entities.Target) error {

	indexPage, err := p.fetcher.GetPage(ctx, target.SourceURL)
	if err != nil {
		return errors.Wrap(err, "failed to fetch index page")
	}

	known, err := p.listings.KnownExternalIDs(ctx, target.ID)
	if err != nil {
		return errors.Wrap(err, "failed to load known listing ids")
	}

	item, err := scraper.FirstUnknownItem(indexPage, known)
	if err != nil {
		return errors.Wrap(err, "failed to extract index page")
	}
	if item == nil {
		log.Debugf("no new listings for target %v", target.ID)
		return nil
	}

	detailPage, err := p.fetcher.GetPage(ctx, item.Link)
	if err != nil {
		return errors.Wrapf(err, "failed to fetch detail page for listing %v", item.ExternalID)
	}

	listing, err := scraper.ParseDetail(detailPage)
	if err != nil {
		return errors.Wrapf(err, "failed to parse detail page for listing %v", item.ExternalID)
	}
	listing.TargetID = target.ID

	if err = p.listings.Add(ctx, listing); err != nil {
		return errors.Wrapf(err, "failed to store listing %v", listing.ExternalID)
	}

	segments := FormatListing(listing)

	if err = p.notifier.SendListing(target.ChatID, segments[0]); err != nil {
		return errors.Wrapf(err, "failed to notify chat %v", target.ChatID)
	}
	metrics.NotificationsCounter.WithLabelValues("listing").Inc()

	if len(segments) > 1 {
		p.sender.Submit(target.ChatID, segments[1])
	}

	metrics.IngestedListingsCounter.Inc()
	log.Infof("sent new listing %v to chat %v", listing.ExternalID, target.ChatID)
	return nil
}
