package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// BotClient is the subset of *bot.Bot the adapter calls, narrowed to what
// KICKAI actually uses (no photo/document/audio sends, no webhook mode — the
// core only ever exchanges text and a contact-request keyboard). Mirrors the
// teacher's internal/channels/telegram/bot_client.go indirection so a mock
// can stand in during tests.
type BotClient interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	GetMe(ctx context.Context) (*models.User, error)
	RegisterHandler(handlerType bot.HandlerType, pattern string, matchType bot.MatchType, handler bot.HandlerFunc)
	RegisterHandlerMatchFunc(matchFunc bot.MatchFunc, handler bot.HandlerFunc)
	Start(ctx context.Context)
}

type realBotClient struct {
	bot *bot.Bot
}

func newRealBotClient(b *bot.Bot) BotClient {
	return &realBotClient{bot: b}
}

func (r *realBotClient) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	return r.bot.SendMessage(ctx, params)
}

func (r *realBotClient) GetMe(ctx context.Context) (*models.User, error) {
	return r.bot.GetMe(ctx)
}

func (r *realBotClient) RegisterHandler(handlerType bot.HandlerType, pattern string, matchType bot.MatchType, handler bot.HandlerFunc) {
	r.bot.RegisterHandler(handlerType, pattern, matchType, handler)
}

func (r *realBotClient) RegisterHandlerMatchFunc(matchFunc bot.MatchFunc, handler bot.HandlerFunc) {
	r.bot.RegisterHandlerMatchFunc(matchFunc, handler)
}

func (r *realBotClient) Start(ctx context.Context) {
	r.bot.Start(ctx)
}
