package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Thomas-Grushka/vasya-bot/internal/entities"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) GetPage(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

type mockListings struct {
	mock.Mock
}

func (m *mockListings) KnownExternalIDs(ctx context.Context, targetID int) (map[string]struct{}, error) {
	args := m.Called(ctx, targetID)
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *mockListings) Add(ctx context.Context, listing *entities.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendListing(chatID int64, text string) error {
	args := m.Called(chatID, text)
	return args.Error(0)
}

func (m *mockNotifier) SendPromo(chatID int64) error {
	args := m.Called(chatID)
	return args.Error(0)
}

func readTestPage(t *testing.T, name string) string {
	data, err := os.ReadFile(filepath.Join("..", "scraper", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

func Test_CheckTarget_NothingNewHasNoSideEffects(t *testing.T) {

	target := entities.Target{ID: 1, ChatID: 100, SourceURL: "https://www.avito.ru/moskva/vakansii"}

	fetcher := new(mockFetcher)
	listings := new(mockListings)
	notifier := new(mockNotifier)

	fetcher.On("GetPage", mock.Anything, target.SourceURL).Return(readTestPage(t, "index.html"), nil)
	listings.On("KnownExternalIDs", mock.Anything, target.ID).
		Return(map[string]struct{}{"111": {}, "222": {}, "333": {}}, nil)

	poller := NewPoller(fetcher, listings, notifier, newAsyncSender(notifier))

	err := poller.CheckTarget(context.Background(), target)

	require.NoError(t, err)
	fetcher.AssertNumberOfCalls(t, "GetPage", 1)
	listings.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendListing", mock.Anything, mock.Anything)
}

func Test_CheckTarget_NewListingIsStoredAndSent(t *testing.T) {

	target := entities.Target{ID: 1, ChatID: 100, SourceURL: "https://www.avito.ru/moskva/vakansii"}

	fetcher := new(mockFetcher)
	listings := new(mockListings)
	notifier := new(mockNotifier)

	fetcher.On("GetPage", mock.Anything, target.SourceURL).Return(readTestPage(t, "index.html"), nil)
	fetcher.On("GetPage", mock.Anything, "https://www.avito.ru/moskva/vakansii/prodavets_konsultant_333").
		Return(readTestPage(t, "detail.html"), nil)
	listings.On("KnownExternalIDs", mock.Anything, target.ID).
		Return(map[string]struct{}{"111": {}, "222": {}}, nil)
	listings.On("Add", mock.Anything, mock.Anything).Return(nil)
	notifier.On("SendListing", target.ChatID, mock.Anything).Return(nil)

	poller := NewPoller(fetcher, listings, notifier, newAsyncSender(notifier))

	err := poller.CheckTarget(context.Background(), target)

	require.NoError(t, err)

	listings.AssertCalled(t, "Add", mock.Anything, mock.MatchedBy(func(listing *entities.Listing) bool {
		return listing.ExternalID == "333" && listing.TargetID == target.ID
	}))
	notifier.AssertCalled(t, "SendListing", target.ChatID, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "<b>Продавец-консультант</b>") &&
			strings.Contains(text, "Ссылка на вакансию")
	}))
}
