package services

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func Test_AsyncSender_DeliversQueuedSegmentsBeforeStop(t *testing.T) {

	notifier := new(mockNotifier)
	notifier.On("SendListing", int64(100), "tail").Return(nil)

	sender := newAsyncSender(notifier)
	go sender.Run()

	sender.Submit(100, "tail")
	sender.Stop()

	notifier.AssertCalled(t, "SendListing", int64(100), "tail")
}

func Test_AsyncSender_SubmitAfterStopDoesNotPanic(t *testing.T) {

	notifier := new(mockNotifier)

	sender := newAsyncSender(notifier)
	go sender.Run()
	sender.Stop()

	require.NotPanics(t, func() {
		sender.Submit(100, "tail")
	})
	notifier.AssertNotCalled(t, "SendListing", mock.Anything, mock.Anything)
}

func Test_AsyncSender_StopTwiceIsSafe(t *testing.T) {

	sender := newAsyncSender(new(mockNotifier))
	go sender.Run()

	sender.Stop()
	require.NotPanics(t, sender.Stop)
}
