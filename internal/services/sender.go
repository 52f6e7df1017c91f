package services

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/Thomas-Grushka/vasya-bot/internal/logger"
	"github.com/Thomas-Grushka/vasya-bot/internal/metrics"
)

type outgoingMessage struct {
	chatID int64
	text   string
}

// asyncSender delivers follow-up message segments without blocking the
// poll loop. Delivery failures go to the log and nowhere else.
type asyncSender struct {
	notifier notifier
	queue    chan outgoingMessage
	done     chan struct{}

	mu      sync.Mutex
	stopped bool
}

func newAsyncSender(notifier notifier) *asyncSender {
	return &asyncSender{
		notifier: notifier,
		queue:    make(chan outgoingMessage, 16),
		done:     make(chan struct{}),
	}
}

func (s *asyncSender) Run() {
	for msg := range s.queue {
		if err := s.notifier.SendListing(msg.chatID, msg.text); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
				Errorf("failed to deliver follow-up segment to chat %v: %v", msg.chatID, err)
			continue
		}
		metrics.NotificationsCounter.WithLabelValues("listing").Inc()
	}
	close(s.done)
}

// Submit queues a segment for delivery. A full queue or a stopped sender
// drops the segment with a warning rather than blocking the caller.
func (s *asyncSender) Submit(chatID int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		log.Warnf("sender is stopped, dropping follow-up segment for chat %v", chatID)
		return
	}

	select {
	case s.queue <- outgoingMessage{chatID: chatID, text: text}:
	default:
		log.Warnf("outgoing queue is full, dropping follow-up segment for chat %v", chatID)
	}
}

// Stop drains queued segments and waits for the delivery loop to exit.
// Safe to call more than once; Submit after Stop is a no-op.
func (s *asyncSender) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
}
