package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	tgModels "github.com/go-telegram/bot/models"
	"github.com/onehunt/onehuntbot/internal/models"
	"github.com/onehunt/onehuntbot/pkg/logger"
)

// TelegramBot is the command front end for users chatting with the bot
// directly. All earning happens in the mini-app; the bot only points there
// and answers quick balance/referral queries.
type TelegramBot struct {
	logger *logger.Logger
	bot    *bot.Bot
	cancel context.CancelFunc

	hunt       models.HuntI
	miniAppURL string
}

func NewTelegramBot(logger *logger.Logger, token string, hunt models.HuntI, miniAppURL string) (*TelegramBot, error) {
	t := &TelegramBot{
		logger:     logger,
		hunt:       hunt,
		miniAppURL: miniAppURL,
	}
	opts := []bot.Option{
		bot.WithDefaultHandler(t.handler),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	t.bot = b

	return t, nil
}

// Start begins long polling for updates.
func (t *TelegramBot) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	go t.bot.Start(ctx)
	t.logger.Info("Telegram bot started")
}

// Stop halts update polling.
func (t *TelegramBot) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
}

func (t *TelegramBot) send(ctx context.Context, chatID int64, text string, markup tgModels.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	}
	if _, err := t.bot.SendMessage(ctx, params); err != nil {
		t.logger.Errorw("Failed to send telegram message", "chat", chatID, "error", err)
	}
}

func (t *TelegramBot) miniAppKeyboard() *tgModels.InlineKeyboardMarkup {
	return &tgModels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgModels.InlineKeyboardButton{{
			{
				Text:   "Open OneHunt",
				WebApp: &tgModels.WebAppInfo{URL: t.miniAppURL},
			},
		}},
	}
}

func (t *TelegramBot) handler(ctx context.Context, b *bot.Bot, update *tgModels.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	from := update.Message.From
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	command, _, _ := strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")

	switch command {
	case "/start":
		t.send(ctx, chatID,
			fmt.Sprintf("Welcome to OneHunt, %s!\n\nTap the button below to start earning coins: claim your daily reward, spin the wheel, complete tasks and invite friends.", from.FirstName),
			t.miniAppKeyboard())
	case "/help":
		t.send(ctx, chatID,
			"Commands:\n"+
				"/start - open the mini-app\n"+
				"/balance - show your coin balance\n"+
				"/referral - show your referral link\n"+
				"/help - this message",
			nil)
	case "/balance":
		user, err := t.hunt.GetUserByTelegramID(from.ID)
		if err != nil {
			t.send(ctx, chatID, "You are not registered yet. Open the mini-app to get started.", t.miniAppKeyboard())
			return
		}
		t.send(ctx, chatID,
			fmt.Sprintf("Balance: %d coins\nLevel: %d (XP %d)\nLogin streak: %d days", user.Balance, user.Level, user.XP, user.Streak),
			nil)
	case "/referral":
		user, err := t.hunt.GetUserByTelegramID(from.ID)
		if err != nil {
			t.send(ctx, chatID, "You are not registered yet. Open the mini-app to get started.", t.miniAppKeyboard())
			return
		}
		info, err := t.hunt.ReferralInfo(user.ID)
		if err != nil {
			t.logger.Errorw("Failed to load referral info", "user", user.ID, "error", err)
			t.send(ctx, chatID, "Something went wrong, try again later.", nil)
			return
		}
		t.send(ctx, chatID,
			fmt.Sprintf("Your referral code: %s\n%s\n\nInvited: %d direct, %d indirect\nEarned from referrals: %d coins",
				info.ReferralCode, info.ReferralLink,
				len(info.DirectReferrals), len(info.IndirectReferrals), info.TotalEarned),
			nil)
	}
}
