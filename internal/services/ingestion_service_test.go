package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Thomas-Grushka/vasya-bot/internal/config"
	"github.com/Thomas-Grushka/vasya-bot/internal/entities"
)

type mockTargets struct {
	mock.Mock
}

func (m *mockTargets) GetActive(ctx context.Context) ([]entities.Target, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Target), args.Error(1)
}

func newTestIngestionService(t *testing.T, fetcher pageFetcher, targets *mockTargets,
	listings listingRepository, notifier notifier) *IngestionService {

	cfg := config.ScraperConfig{
		PollInterval:  30 * time.Second,
		PromoInterval: 50 * time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}

	service, err := NewIngestionService(EventBus.New(), fetcher, targets, targets, listings, notifier, cfg)
	require.NoError(t, err)
	t.Cleanup(service.Shutdown)
	return service
}

func Test_PromoTick_SendsToEveryActiveTarget(t *testing.T) {

	targets := new(mockTargets)
	notifier := new(mockNotifier)

	targets.On("GetActive", mock.Anything).Return([]entities.Target{
		{ID: 1, ChatID: 10}, {ID: 2, ChatID: 20}, {ID: 3, ChatID: 30},
	}, nil)
	notifier.On("SendPromo", mock.Anything).Return(nil)

	service := newTestIngestionService(t, new(mockFetcher), targets, new(mockListings), notifier)

	service.promoTick()

	notifier.AssertNumberOfCalls(t, "SendPromo", 3)
	notifier.AssertCalled(t, "SendPromo", int64(10))
	notifier.AssertCalled(t, "SendPromo", int64(20))
	notifier.AssertCalled(t, "SendPromo", int64(30))
}

func Test_PromoTick_FailedSendDoesNotStopTheRest(t *testing.T) {

	targets := new(mockTargets)
	notifier := new(mockNotifier)

	targets.On("GetActive", mock.Anything).Return([]entities.Target{
		{ID: 1, ChatID: 10}, {ID: 2, ChatID: 20}, {ID: 3, ChatID: 30},
	}, nil)
	notifier.On("SendPromo", int64(10)).Return(errors.New("chat not found"))
	notifier.On("SendPromo", int64(20)).Return(nil)
	notifier.On("SendPromo", int64(30)).Return(nil)

	service := newTestIngestionService(t, new(mockFetcher), targets, new(mockListings), notifier)

	service.promoTick()

	notifier.AssertNumberOfCalls(t, "SendPromo", 3)
	notifier.AssertCalled(t, "SendPromo", int64(20))
	notifier.AssertCalled(t, "SendPromo", int64(30))
}

func Test_PollTick_ExhaustedTargetDoesNotAbortTheTick(t *testing.T) {

	badURL := "https://www.avito.ru/moskva/vakansii/broken"
	goodURL := "https://www.avito.ru/moskva/vakansii"

	targets := new(mockTargets)
	fetcher := new(mockFetcher)
	listings := new(mockListings)
	notifier := new(mockNotifier)

	targets.On("GetActive", mock.Anything).Return([]entities.Target{
		{ID: 1, ChatID: 10, SourceURL: badURL},
		{ID: 2, ChatID: 20, SourceURL: goodURL},
	}, nil)
	fetcher.On("GetPage", mock.Anything, badURL).Return("", errors.New("upstream timeout"))
	fetcher.On("GetPage", mock.Anything, goodURL).Return(readTestPage(t, "index.html"), nil)
	listings.On("KnownExternalIDs", mock.Anything, 2).
		Return(map[string]struct{}{"111": {}, "222": {}, "333": {}}, nil)

	service := newTestIngestionService(t, fetcher, targets, listings, notifier)

	service.pollTick()

	// two retry attempts against the broken target, one fetch for the healthy one
	fetcher.AssertNumberOfCalls(t, "GetPage", 3)
	fetcher.AssertCalled(t, "GetPage", mock.Anything, goodURL)
	listings.AssertCalled(t, "KnownExternalIDs", mock.Anything, 2)
	notifier.AssertNotCalled(t, "SendListing", mock.Anything, mock.Anything)
}
