package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/SummitSummer/Botishe/internal/logger"
	"github.com/SummitSummer/Botishe/internal/service"
)

// Bot runs the long-polling loop and translates Telegram updates into typed
// calls on the conversation controller.
type Bot struct {
	api  *tgbotapi.BotAPI
	conv service.ConversationService
}

func NewBot(api *tgbotapi.BotAPI, conv service.ConversationService) *Bot {
	return &Bot{api: api, conv: conv}
}

func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	logger.Logger.Info().Str("bot", b.api.Self.UserName).Msg("telegram polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			logger.Logger.Warn().Err(err).Msg("callback ack failed")
		}
		if query.Message == nil {
			return
		}
		b.conv.HandleCallback(ctx, query.Message.Chat.ID, query.Data)

	case update.Message != nil:
		msg := update.Message
		if msg.IsCommand() {
			if msg.Command() == "start" {
				b.conv.HandleStart(msg.Chat.ID)
			}
			return
		}
		b.conv.HandleMessage(msg.Chat.ID, contactOf(msg.From), msg.Text)
	}
}

// contactOf mirrors how the admin is used to seeing buyers: @username when
// set, otherwise the visible name.
func contactOf(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
