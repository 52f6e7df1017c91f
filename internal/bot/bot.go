package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/Thomas-Grushka/vasya-bot/internal/entities"
	"github.com/Thomas-Grushka/vasya-bot/internal/events"
)

const (
	promoText       = "Жора предложит более точный поиск"
	promoButtonText = "Перейти на Жору"
	promoButtonURL  = "https://t.me/ZhoraHelpBot"
)

// DeliveryError marks a failure to push a message through the telegram API.
type DeliveryError struct {
	ChatID int64
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver message to chat %v: %v", e.ChatID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type userRepository interface {
	FindByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error)
	Add(ctx context.Context, user entities.User) error
}

type Bot struct {
	api   *botApi.BotAPI
	bus   EventBus.Bus
	users userRepository
}

func NewBot(token string, bus EventBus.Bus, users userRepository) (*Bot, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	if users == nil {
		return nil, errors.New("users repository is nil")
	}

	return &Bot{api: api, bus: bus, users: users}, nil
}

func (b *Bot) Run() {

	updateConfig := botApi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {

		if update.Message == nil {
			continue
		}

		if update.Message.NewChatMembers != nil {
			go b.handleNewChatMembers(update.Message)
			continue
		}

		if update.Message.IsCommand() {
			go b.handleCommand(update.Message)
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// SendListing delivers one already formatted listing segment as HTML.
func (b *Bot) SendListing(chatID int64, text string) error {

	msg := botApi.NewMessage(chatID, text)
	msg.ParseMode = botApi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		return &DeliveryError{ChatID: chatID, Err: err}
	}
	return nil
}

// SendPromo delivers the recurring promotional message with an inline
// button pointing at the companion bot.
func (b *Bot) SendPromo(chatID int64) error {

	msg := botApi.NewMessage(chatID, promoText)
	msg.ParseMode = botApi.ModeMarkdownV2
	msg.ReplyMarkup = botApi.NewInlineKeyboardMarkup(
		botApi.NewInlineKeyboardRow(
			botApi.NewInlineKeyboardButtonURL(promoButtonText, promoButtonURL),
		),
	)

	if _, err := b.api.Send(msg); err != nil {
		return &DeliveryError{ChatID: chatID, Err: err}
	}
	return nil
}

func (b *Bot) handleCommand(message *botApi.Message) {

	switch message.Command() {
	case "run":
		b.bus.Publish(events.IngestionStartTopic, events.IngestionStart{RequestedBy: message.From.ID})
	case "stop":
		b.bus.Publish(events.IngestionStopTopic, events.IngestionStop{RequestedBy: message.From.ID})
	default:
		log.Debugf("unknown command %v from user %v", message.Command(), message.From.ID)
	}
}

// handleNewChatMembers registers chat members the bot has not seen before,
// so the chat roster survives restarts.
func (b *Bot) handleNewChatMembers(message *botApi.Message) {

	ctx := context.Background()

	for _, member := range message.NewChatMembers {

		if member.IsBot {
			continue
		}

		existing, err := b.users.FindByTelegramID(ctx, member.ID)
		if err != nil {
			log.Errorf("failed to look up user %v: %v", member.ID, err)
			continue
		}
		if existing != nil {
			continue
		}

		user := entities.User{
			TelegramID: member.ID,
			FirstName:  member.FirstName,
			LastName:   member.LastName,
			UserName:   member.UserName,
			ChatID:     message.Chat.ID,
			ChatTitle:  message.Chat.Title,
		}

		if err = b.users.Add(ctx, user); err != nil {
			log.Errorf("failed to register user %v: %v", member.ID, err)
			continue
		}
		log.Infof("registered user %v in chat %v", member.ID, message.Chat.ID)
	}
}
