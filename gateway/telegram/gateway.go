package telegram

import (
	"context"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/w-h-a/commonbase/internal/service/chat"
)

// Gateway is the Telegram transport: it long-polls for updates, maps each
// message to a chat event, and sends the reply back to the originating chat.
// One goroutine per update; no update blocks another.
type Gateway struct {
	options Options
	bot     *tgbotapi.BotAPI
	chat    *chat.Service
}

// Run blocks until ctx is cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = g.options.PollTimeout

	updates := g.bot.GetUpdatesChan(cfg)

	slog.InfoContext(ctx, "telegram gateway running", "bot", g.bot.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			g.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			go g.handle(ctx, update.Message)
		}
	}
}

func (g *Gateway) handle(ctx context.Context, msg *tgbotapi.Message) {
	ev := chat.Event{
		SenderID:   strconv.FormatInt(msg.From.ID, 10),
		SenderName: msg.From.FirstName,
		ChatID:     strconv.FormatInt(msg.Chat.ID, 10),
		Text:       msg.Text,
	}

	reply := g.chat.Respond(ctx, ev)

	if _, err := g.bot.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		slog.ErrorContext(ctx, "failed to send reply", "chat", msg.Chat.ID, "error", err)
	}
}

func NewGateway(svc *chat.Service, opts ...Option) (*Gateway, error) {
	options := NewOptions(opts...)

	bot, err := tgbotapi.NewBotAPI(options.Token)
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		options: options,
		bot:     bot,
		chat:    svc,
	}

	return g, nil
}
