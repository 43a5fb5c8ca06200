// Package telegram implements the Telegram transport of SPEC_FULL.md §6: a
// long-polling github.com/go-telegram/bot client that maps inbound updates
// into router.Update values, calls Router.Handle, and renders the reply back
// out — attaching a contact-request keyboard when the router signals
// NeedsContactButton, plain text otherwise. Grounded on the teacher's
// internal/channels/telegram/adapter.go, trimmed to KICKAI's single-channel,
// text-and-contact-only surface (no webhook mode, no attachment relay — the
// orchestration core never sends media).
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kickai/kickai/internal/kerrors"
	"github.com/kickai/kickai/internal/reqcontext"
	"github.com/kickai/kickai/internal/router"
)

// requestContactPrompt is the button text shown on the contact-request
// keyboard attached when the router asks for one.
const requestContactPrompt = "📱 Share my contact"

// Config holds the Telegram adapter's configuration.
type Config struct {
	// Token is the bot token from @BotFather.
	Token string

	// TeamID is the team this bot instance serves — one deployed bot per
	// team, matching spec.md §3's team_id tenancy model.
	TeamID string

	// LeadershipChatID classifies an inbound group update as
	// reqcontext.ChatLeadership; every other group is reqcontext.ChatMain.
	// MainChatID is used only to deliver "main" broadcasts. A private chat
	// is always reqcontext.ChatPrivate regardless of these.
	MainChatID       string
	LeadershipChatID string

	RateLimit float64
	RateBurst int

	Logger *slog.Logger
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return kerrors.Validation("telegram token is required", nil)
	}
	if strings.TrimSpace(c.TeamID) == "" {
		return kerrors.Validation("team_id is required", nil)
	}
	if c.RateLimit == 0 {
		c.RateLimit = 30
	}
	if c.RateBurst == 0 {
		c.RateBurst = 20
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}

// Adapter bridges go-telegram/bot updates to the router.
type Adapter struct {
	config      Config
	router      *router.Router
	botClient   BotClient
	limiter     *rateLimiter
	logger      *slog.Logger
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewAdapter validates cfg and builds an Adapter bound to r. The bot
// connection itself is established in Start.
func NewAdapter(cfg Config, r *router.Router) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, kerrors.Programming("telegram adapter requires a router", nil)
	}
	return &Adapter{
		config:  cfg,
		router:  r,
		limiter: newRateLimiter(cfg.RateLimit, cfg.RateBurst),
		logger:  cfg.Logger.With("adapter", "telegram", "team_id", cfg.TeamID),
	}, nil
}

// SetBotClient overrides the bot client, primarily for tests.
func (a *Adapter) SetBotClient(client BotClient) {
	a.botClient = client
}

// Start establishes the bot connection and begins long polling. It returns
// once handlers are registered; polling runs in a background goroutine until
// ctx is cancelled or Stop is called.
func (a *Adapter) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.botClient == nil {
		b, err := tgbot.New(a.config.Token)
		if err != nil {
			return kerrors.Unavailable("failed to create telegram bot client", err)
		}
		a.botClient = newRealBotClient(b)
	}

	a.botClient.RegisterHandler(tgbot.HandlerTypeMessageText, "", tgbot.MatchTypePrefix, a.handleUpdate)
	a.botClient.RegisterHandlerMatchFunc(matchContactMessage, a.handleUpdate)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.botClient.Start(ctx)
	}()

	a.logger.Info("telegram adapter started")
	return nil
}

// Stop cancels the polling loop and waits for it to exit.
func (a *Adapter) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return kerrors.Unavailable("telegram adapter did not stop in time", ctx.Err())
	}
}

// matchContactMessage matches updates carrying a shared contact but no text
// — the text handler registered with MatchTypePrefix above only fires for
// messages with text, so a bare contact share needs its own match function
// (grounded on the teacher's matchMediaMessage).
func matchContactMessage(update *models.Update) bool {
	return update.Message != nil && update.Message.Text == "" && update.Message.Contact != nil
}

// handleUpdate is the go-telegram/bot handler: it converts the update,
// routes it, and sends the rendered reply back.
func (a *Adapter) handleUpdate(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	upd, ok := a.toRouterUpdate(update.Message)
	if !ok {
		return
	}

	resp, err := a.router.Handle(ctx, upd)
	if err != nil {
		a.logger.Error("router handle failed", "error", err)
		return
	}

	if err := a.send(ctx, update.Message.Chat.ID, resp); err != nil {
		a.logger.Error("failed to send reply", "error", err, "chat_id", update.Message.Chat.ID)
	}

	a.sendBroadcast(ctx, resp)
}

// sendBroadcast fans resp.BroadcastText out to every named chat audience in
// resp.BroadcastTargets (spec.md §6's administrative broadcast), after the
// normal reply has already gone to the triggering chat. A target with no
// configured chat id, or that fails to send, is logged and skipped — a
// broadcast failure never surfaces back to the caller, matching the
// never-panics invariant the rest of the adapter follows.
func (a *Adapter) sendBroadcast(ctx context.Context, resp router.Response) {
	if len(resp.BroadcastTargets) == 0 || resp.BroadcastText == "" {
		return
	}
	for _, target := range resp.BroadcastTargets {
		chatID, ok := a.resolveBroadcastChatID(target)
		if !ok {
			a.logger.Warn("broadcast target has no configured chat id", "target", target)
			continue
		}
		if err := a.send(ctx, chatID, router.Response{Text: resp.BroadcastText}); err != nil {
			a.logger.Error("failed to send broadcast", "error", err, "target", target, "chat_id", chatID)
		}
	}
}

// resolveBroadcastChatID maps a broadcast target name onto a configured
// chat id.
func (a *Adapter) resolveBroadcastChatID(target string) (int64, bool) {
	var raw string
	switch target {
	case "main":
		raw = a.config.MainChatID
	case "leadership":
		raw = a.config.LeadershipChatID
	default:
		return 0, false
	}
	if raw == "" {
		return 0, false
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return chatID, true
}

// toRouterUpdate maps a Telegram message into the transport-agnostic
// router.Update shape (spec.md §4.5 responsibility 1 — field mapping only).
func (a *Adapter) toRouterUpdate(msg *models.Message) (router.Update, bool) {
	if msg.From == nil {
		return router.Update{}, false
	}

	upd := router.Update{
		TelegramID:  msg.From.ID,
		Username:    msg.From.Username,
		DisplayName: strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName),
		TeamID:      a.config.TeamID,
		ChatID:      strconv.FormatInt(msg.Chat.ID, 10),
		ChatType:    a.classifyChatType(msg.Chat),
		Text:        msg.Text,
	}

	if msg.Contact != nil {
		upd.ContactPhone = msg.Contact.PhoneNumber
		upd.ContactTelegramID = msg.Contact.UserID
	}

	if token, ok := startPayload(msg.Text); ok {
		upd.InviteToken = token
	}

	if upd.Text == "" && msg.Contact == nil {
		return router.Update{}, false
	}
	return upd, true
}

// startPayload extracts the deep-link payload from a "/start <payload>"
// message, which carries a signed invite token when present.
func startPayload(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 || strings.ToLower(fields[0]) != "/start" {
		return "", false
	}
	return fields[1], true
}

// classifyChatType maps a Telegram chat onto KICKAI's scope model: a private
// chat is always reqcontext.ChatPrivate; a group/supergroup is main or
// leadership depending on which chat id the team is configured with.
func (a *Adapter) classifyChatType(chat models.Chat) reqcontext.ChatType {
	if chat.Type == models.ChatTypePrivate {
		return reqcontext.ChatPrivate
	}
	id := strconv.FormatInt(chat.ID, 10)
	if a.config.LeadershipChatID != "" && id == a.config.LeadershipChatID {
		return reqcontext.ChatLeadership
	}
	return reqcontext.ChatMain
}

// send renders resp back to chatID, attaching a contact-request keyboard
// when NeedsContactButton is set and stripping markup otherwise (SPEC_FULL.md
// §6).
func (a *Adapter) send(ctx context.Context, chatID int64, resp router.Response) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return kerrors.Unavailable("rate limit wait cancelled", err)
	}
	if a.botClient == nil {
		return kerrors.Unavailable("telegram bot not started", nil)
	}

	params := &tgbot.SendMessageParams{ChatID: chatID, Text: resp.Text}
	if resp.NeedsContactButton {
		params.ReplyMarkup = &models.ReplyKeyboardMarkup{
			Keyboard: [][]models.KeyboardButton{
				{{Text: requestContactPrompt, RequestContact: true}},
			},
			ResizeKeyboard:  true,
			OneTimeKeyboard: true,
		}
	} else {
		params.ReplyMarkup = &models.ReplyKeyboardRemove{RemoveKeyboard: true}
	}

	_, err := a.botClient.SendMessage(ctx, params)
	if err != nil {
		return kerrors.Unavailable("telegram send failed", err)
	}
	return nil
}

// HealthCheck verifies connectivity by calling getMe.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	if a.botClient == nil {
		return errors.New("bot not initialized")
	}
	start := time.Now()
	_, err := a.botClient.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe failed after %s: %w", time.Since(start), err)
	}
	return nil
}
