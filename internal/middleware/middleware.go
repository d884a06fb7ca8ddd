package middleware

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/mkorobov/playtime-bot/internal/contextkeys"
)

// RequestID tags every update with a request id for log correlation.
func RequestID(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		ctx = contextkeys.WithRequestID(ctx, uuid.NewString())
		next(ctx, b, update)
	}
}

// Logger logs one line per handled update with its elapsed time.
func Logger(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		start := time.Now()
		next(ctx, b, update)
		id, _ := contextkeys.GetRequestID(ctx)
		log.Printf("[%s] %s (%s)", id, describeUpdate(update), time.Since(start).Round(time.Millisecond))
	}
}

func describeUpdate(update *models.Update) string {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return fmt.Sprintf("message chat=%d user=%d text=%q",
			update.Message.Chat.ID, update.Message.From.ID, update.Message.Text)
	case update.MyChatMember != nil:
		return fmt.Sprintf("my_chat_member chat=%d status=%v",
			update.MyChatMember.Chat.ID, update.MyChatMember.NewChatMember.Type)
	default:
		return "update"
	}
}
