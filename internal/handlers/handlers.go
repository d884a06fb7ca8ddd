// Package handlers is the Telegram glue: it turns updates into
// dispatcher requests and renders replies. No decision logic lives here.
package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mkorobov/playtime-bot/internal/commands"
	"github.com/mkorobov/playtime-bot/internal/messages"
	"github.com/mkorobov/playtime-bot/types"
)

type Handlers struct {
	dispatcher *commands.Dispatcher
	subs       types.SubscriptionStore
}

func NewHandlers(dispatcher *commands.Dispatcher, subs types.SubscriptionStore) *Handlers {
	return &Handlers{
		dispatcher: dispatcher,
		subs:       subs,
	}
}

func (h *Handlers) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.MyChatMember != nil:
		h.handleMyChatMember(ctx, b, update.MyChatMember)
	case update.Message != nil:
		h.handleMessage(ctx, b, update.Message)
	}
}

func (h *Handlers) handleMessage(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if msg.From == nil || !strings.HasPrefix(strings.TrimSpace(msg.Text), "/") {
		return
	}

	lang := messages.FromLanguageCode(msg.From.LanguageCode)
	fields := strings.Fields(strings.TrimSpace(msg.Text))
	cmd := strings.TrimPrefix(fields[0], "/")
	if strings.Contains(cmd, "@") {
		cmd = strings.SplitN(cmd, "@", 2)[0]
	}
	cmd = strings.ToLower(cmd)

	if cmd == "start" || cmd == "help" {
		h.send(ctx, b, msg.Chat.ID, messages.Help(lang))
		return
	}

	// Commands are guild-scoped; a guild is a group chat.
	if isPrivateChat(msg.Chat) {
		h.send(ctx, b, msg.Chat.ID, messages.GroupOnly(lang))
		return
	}

	reply := h.dispatcher.Dispatch(ctx, commands.Request{
		Command:  cmd,
		GuildID:  msg.Chat.ID,
		CallerID: msg.From.ID,
		Args:     fields[1:],
		Lang:     lang,
	})
	h.sendReply(ctx, b, msg, reply)
}

// sendReply delivers private replies to the caller's own chat with the
// bot, falling back to the guild chat when the user never opened one.
func (h *Handlers) sendReply(ctx context.Context, b *bot.Bot, msg *models.Message, reply commands.Reply) {
	if reply.Text == "" {
		return
	}
	if reply.Private && !isPrivateChat(msg.Chat) {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    msg.From.ID,
			Text:      reply.Text,
			ParseMode: messages.ParseModeHTML,
		}); err == nil {
			return
		}
	}
	h.send(ctx, b, msg.Chat.ID, reply.Text)
}

func (h *Handlers) handleMyChatMember(ctx context.Context, b *bot.Bot, upd *models.ChatMemberUpdated) {
	if !isGroupChat(upd.Chat) {
		return
	}
	status := upd.NewChatMember.Type
	if status != models.ChatMemberTypeMember && status != models.ChatMemberTypeAdministrator {
		return
	}

	created, err := h.subs.CreateSubscription(ctx, upd.Chat.ID)
	if err != nil {
		log.Printf("bootstrap: guild=%d: %v", upd.Chat.ID, err)
		return
	}
	if !created {
		// Duplicate join notification; the guild already has a record.
		return
	}

	lang := messages.FromLanguageCode(upd.From.LanguageCode)
	h.send(ctx, b, upd.Chat.ID, messages.GuildWelcome(lang))
}

func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		log.Printf("send message: chat=%d: %v", chatID, err)
	}
}

func isPrivateChat(chat models.Chat) bool {
	return chat.Type == "private"
}

func isGroupChat(chat models.Chat) bool {
	return chat.Type == "group" || chat.Type == "supergroup"
}
