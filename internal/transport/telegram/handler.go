package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/matcher"
	alertService "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/service"
	chatDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/domain"
	chatRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/repository"
	chatService "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/service"
	subscriberDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/domain"
	subscriberRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/repository"
	subscriberService "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/service"
	"github.com/reshetovitsme/chat-alert-bot/internal/shared/config"
	sharedErrors "github.com/reshetovitsme/chat-alert-bot/internal/shared/errors"
	"github.com/samber/lo"
)

const helpText = `Hello!
I am a bot that will alert people when some message is sent to chats you add me to.
Private chat commands:
/set_phone_number +79XXXXXXXXX - to set phone number for calls
Group chat commands:
/alert_me - to add you to alert list for this chat
/add_alert REGEXP - to add alert
/remove_alerts - to remove all alerts
/mute and /unmute - to pause and resume alerts`

const welcomeText = `Hello! I am a bot that will alert people when some message is sent to this chat.
Use /alert_me to add yourself to alert list for this chat.
Use /add_alert <regex> to add alert.
Use /remove_alerts to remove all alerts.`

// Handler handles Telegram bot interactions
type Handler struct {
	cfg         *config.Config
	chats       *chatService.Service
	subscribers *subscriberService.Service
	dispatcher  *alertService.Service
}

// New creates a new Telegram handler
func New(cfg *config.Config, chats *chatService.Service, subscribers *subscriberService.Service, dispatcher *alertService.Service) *Handler {
	return &Handler{
		cfg:         cfg,
		chats:       chats,
		subscribers: subscribers,
		dispatcher:  dispatcher,
	}
}

// RegisterCommands registers bot commands. Prefix matching lets the
// mention-suffixed form used in groups ("/mute@MyBot") reach the handler;
// each handler re-parses the command so a prefix collision ("/muted ...")
// falls through to the matcher instead.
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/set_phone_number", bot.MatchTypePrefix, h.handleSetPhoneNumber)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/alert_me", bot.MatchTypePrefix, h.handleAlertMe)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/add_alert", bot.MatchTypePrefix, h.handleAddAlert)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/remove_alerts", bot.MatchTypePrefix, h.handleRemoveAlerts)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/mute", bot.MatchTypePrefix, h.handleMute)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/unmute", bot.MatchTypePrefix, h.handleUnmute)
}

// HandleUpdate processes updates not claimed by a registered command
// handler: membership changes, plain chat messages and channel posts.
// A failure while handling one update is contained here; the poller keeps
// going no matter what a single event does.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while handling update", "update_id", update.ID, "panic", r)
		}
	}()

	switch {
	case update.MyChatMember != nil:
		h.handleMembershipChange(ctx, b, update.MyChatMember)
	case update.Message != nil && isGroupChat(string(update.Message.Chat.Type)):
		h.processChatMessage(ctx, b, update.Message)
	case update.ChannelPost != nil:
		// Channels deliver everything as channel posts, commands included.
		if cmd, args := splitCommand(update.ChannelPost.Text); cmd != "" {
			h.handleChannelCommand(ctx, b, update.ChannelPost, cmd, args)
		} else {
			h.processChatMessage(ctx, b, update.ChannelPost)
		}
	}
}

// handleMembershipChange feeds my_chat_member events into the membership
// state machine. Private chats are not tracked.
func (h *Handler) handleMembershipChange(ctx context.Context, b *bot.Bot, upd *models.ChatMemberUpdated) {
	kind, err := chatDomain.ParseChatKind(string(upd.Chat.Type))
	if err != nil {
		return
	}

	status := memberStatus(upd.NewChatMember)
	chat, err := h.chats.OnMembershipChange(ctx, upd.Chat.ID, upd.From.ID, status, upd.Chat.Title, kind)
	if err != nil {
		slog.Error("Failed to apply membership change", "chat_id", upd.Chat.ID, "error", err)
		return
	}

	if status == chatDomain.ChatStatusMember {
		h.reply(ctx, b, chat.ID, welcomeText)
	}
}

// processChatMessage runs an incoming group/channel message through the
// trigger matcher and dispatches on a hit.
func (h *Handler) processChatMessage(ctx context.Context, b *bot.Bot, msg *models.Message) {
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" {
		return
	}

	chat, err := h.chats.GetChat(ctx, msg.Chat.ID)
	if err != nil {
		// Unknown chats are ignored; the record appears with the first
		// membership event.
		if !errors.Is(err, chatRepo.ErrNotFound) {
			slog.Error("Failed to load chat", "chat_id", msg.Chat.ID, "error", err)
		}
		return
	}

	if chat.Muted {
		return
	}

	rule, ok := matcher.Match(chat.Rules, text)
	if !ok {
		return
	}

	h.reply(ctx, b, chat.ID, fmt.Sprintf("Alert triggered by regex %s", rule.Pattern))

	report := h.dispatcher.Dispatch(ctx, chat, rule, text)
	slog.Info("Alert dispatched",
		"chat_id", chat.ID,
		"rule", rule.Pattern,
		"attempted", report.Attempted,
		"delivered", report.Delivered,
		"failures", len(report.Failures),
	)
}

// handleChannelCommand routes commands typed into channels, where updates
// arrive as channel posts without an acting user.
func (h *Handler) handleChannelCommand(ctx context.Context, b *bot.Bot, msg *models.Message, cmd, args string) {
	switch cmd {
	case "/alert_me":
		h.alertMe(ctx, b, msg, nil)
	case "/add_alert":
		h.addAlert(ctx, b, msg, args)
	case "/remove_alerts":
		h.removeAlerts(ctx, b, msg)
	case "/mute":
		h.setMuted(ctx, b, msg, true)
	case "/unmute":
		h.setMuted(ctx, b, msg, false)
	}
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat.Type != "private" || !matchesCommand(msg.Text, "/start") {
		return
	}
	if !h.checkAuthorization(ctx, b, msg) {
		return
	}

	if _, err := h.subscribers.Register(ctx, msg.From.ID, msg.From.Username); err != nil {
		slog.Error("Failed to register subscriber", "user_id", msg.From.ID, "error", err)
		h.reply(ctx, b, msg.Chat.ID, "Something went wrong, please try again.")
		return
	}

	h.reply(ctx, b, msg.Chat.ID, helpText)
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	if _, ok := h.commandOrFallthrough(ctx, b, msg, "/help"); !ok {
		return
	}
	h.reply(ctx, b, msg.Chat.ID, helpText)
}

func (h *Handler) handleSetPhoneNumber(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat.Type != "private" || !matchesCommand(msg.Text, "/set_phone_number") {
		return
	}
	if !h.checkAuthorization(ctx, b, msg) {
		return
	}

	_, args := splitCommand(msg.Text)
	phone := strings.ReplaceAll(args, " ", "")

	if phone == "" {
		if _, err := h.subscribers.SetPhone(ctx, msg.From.ID, ""); err != nil {
			h.replySubscriberError(ctx, b, msg.Chat.ID, err)
			return
		}
		h.reply(ctx, b, msg.Chat.ID, "You have not provided phone number. Deleted your phone number. I will not call you anymore.")
		return
	}

	if _, err := h.subscribers.SetPhone(ctx, msg.From.ID, phone); err != nil {
		if errors.Is(err, subscriberDomain.ErrInvalidPhone) {
			h.reply(ctx, b, msg.Chat.ID, "Phone number should be in international format, like +79001234567.")
			return
		}
		h.replySubscriberError(ctx, b, msg.Chat.ID, err)
		return
	}

	h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Phone number set to %s.", phone))
}

func (h *Handler) handleAlertMe(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || !isGroupChat(string(msg.Chat.Type)) {
		return
	}
	if _, ok := h.commandOrFallthrough(ctx, b, msg, "/alert_me"); !ok {
		return
	}
	if !h.checkAuthorization(ctx, b, msg) {
		return
	}
	var actorID *int64
	if msg.From != nil {
		actorID = &msg.From.ID
	}
	h.alertMe(ctx, b, msg, actorID)
}

// alertMe subscribes the acting user to the chat's alerts. In channels
// there is no acting user; the chat's adder is subscribed instead.
func (h *Handler) alertMe(ctx context.Context, b *bot.Bot, msg *models.Message, actorID *int64) {
	chat, err := h.chats.GetChat(ctx, msg.Chat.ID)
	if err != nil {
		h.replyChatError(ctx, b, msg.Chat.ID, err)
		return
	}

	subscriberID := actorID
	if chat.Kind == chatDomain.ChatKindChannel || subscriberID == nil {
		subscriberID = chat.AdderID
	}
	if subscriberID == nil {
		h.reply(ctx, b, msg.Chat.ID, "I don't know who added me to this chat, so I don't know whom to subscribe.")
		return
	}

	if _, err := h.subscribers.GetSubscriber(ctx, *subscriberID); err != nil {
		if errors.Is(err, subscriberRepo.ErrNotFound) {
			h.reply(ctx, b, msg.Chat.ID, "You are not registered in the database. Please start a private chat with me first.")
			return
		}
		slog.Error("Failed to resolve subscriber", "subscriber_id", *subscriberID, "error", err)
		return
	}

	if err := h.chats.Subscribe(ctx, chat.ID, *subscriberID); err != nil {
		slog.Error("Failed to subscribe", "chat_id", chat.ID, "subscriber_id", *subscriberID, "error", err)
		return
	}

	h.reply(ctx, b, msg.Chat.ID, "You are added to alert list for this chat.")
}

func (h *Handler) handleAddAlert(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || !isGroupChat(string(msg.Chat.Type)) {
		return
	}
	args, ok := h.commandOrFallthrough(ctx, b, msg, "/add_alert")
	if !ok {
		return
	}
	if !h.checkAuthorization(ctx, b, msg) {
		return
	}
	h.addAlert(ctx, b, msg, args)
}

func (h *Handler) addAlert(ctx context.Context, b *bot.Bot, msg *models.Message, pattern string) {
	if pattern == "" {
		h.reply(ctx, b, msg.Chat.ID, "You have not provided a regex.")
		return
	}

	rule, err := h.chats.AddRule(ctx, msg.Chat.ID, pattern)
	if err != nil {
		if errors.Is(err, chatDomain.ErrInvalidPattern) {
			h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Regex %s does not compile, alert not added.", pattern))
			return
		}
		h.replyChatError(ctx, b, msg.Chat.ID, err)
		return
	}

	h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Alert %s added.", rule.Pattern))
}

func (h *Handler) handleRemoveAlerts(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || !isGroupChat(string(msg.Chat.Type)) {
		return
	}
	if _, ok := h.commandOrFallthrough(ctx, b, msg, "/remove_alerts"); !ok {
		return
	}
	if !h.checkAuthorization(ctx, b, msg) {
		return
	}
	h.removeAlerts(ctx, b, msg)
}

func (h *Handler) removeAlerts(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if err := h.chats.ClearRules(ctx, msg.Chat.ID); err != nil {
		h.replyChatError(ctx, b, msg.Chat.ID, err)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, "Alerts removed.")
}

func (h *Handler) handleMute(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleMuteToggle(ctx, b, update, true)
}

func (h *Handler) handleUnmute(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleMuteToggle(ctx, b, update, false)
}

func (h *Handler) handleMuteToggle(ctx context.Context, b *bot.Bot, update *models.Update, muted bool) {
	msg := update.Message
	if msg == nil || !isGroupChat(string(msg.Chat.Type)) {
		return
	}
	want := "/mute"
	if !muted {
		want = "/unmute"
	}
	if _, ok := h.commandOrFallthrough(ctx, b, msg, want); !ok {
		return
	}
	if !h.checkAuthorization(ctx, b, msg) {
		return
	}
	h.setMuted(ctx, b, msg, muted)
}

func (h *Handler) setMuted(ctx context.Context, b *bot.Bot, msg *models.Message, muted bool) {
	if err := h.chats.SetMuted(ctx, msg.Chat.ID, muted); err != nil {
		h.replyChatError(ctx, b, msg.Chat.ID, err)
		return
	}
	if muted {
		h.reply(ctx, b, msg.Chat.ID, "Muted.")
	} else {
		h.reply(ctx, b, msg.Chat.ID, "Unmuted.")
	}
}

// checkAuthorization enforces the allow-list when one is configured.
// Channel posts carry no acting user and pass through.
func (h *Handler) checkAuthorization(ctx context.Context, b *bot.Bot, msg *models.Message) bool {
	if len(h.cfg.AllowedUsers) == 0 || msg.From == nil {
		return true
	}
	if lo.Contains(h.cfg.AllowedUsers, msg.From.ID) {
		return true
	}
	slog.Warn("Rejected command", "user_id", msg.From.ID, "chat_id", msg.Chat.ID, "error", sharedErrors.ErrUnauthorized)
	h.reply(ctx, b, msg.Chat.ID, "You are not authorized to use this bot.")
	return false
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		slog.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) replyChatError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	if errors.Is(err, chatRepo.ErrNotFound) {
		h.reply(ctx, b, chatID, "I don't know this chat yet. Re-add me or promote me so I can see it.")
		return
	}
	slog.Error("Chat command failed", "chat_id", chatID, "error", err)
	h.reply(ctx, b, chatID, "Something went wrong, please try again.")
}

func (h *Handler) replySubscriberError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	if errors.Is(err, subscriberRepo.ErrNotFound) {
		h.reply(ctx, b, chatID, "You are not registered yet. Send /start first.")
		return
	}
	slog.Error("Subscriber command failed", "chat_id", chatID, "error", err)
	h.reply(ctx, b, chatID, "Something went wrong, please try again.")
}

// memberStatus collapses the Telegram member state onto the tracked
// statuses: owner and administrator count as plain membership.
func memberStatus(m models.ChatMember) chatDomain.ChatStatus {
	switch m.Type {
	case models.ChatMemberTypeRestricted:
		return chatDomain.ChatStatusRestricted
	case models.ChatMemberTypeLeft:
		return chatDomain.ChatStatusLeft
	case models.ChatMemberTypeBanned:
		return chatDomain.ChatStatusBanned
	default:
		return chatDomain.ChatStatusMember
	}
}

func isGroupChat(chatType string) bool {
	switch chatType {
	case "group", "supergroup", "channel":
		return true
	}
	return false
}

// splitCommand splits "/add_alert foo bar" into the command and its
// argument string. Returns an empty command for non-command text. A bot
// mention suffix ("/mute@MyBot"), the usual form in groups, is stripped
// from the command.
func splitCommand(text string) (cmd, args string) {
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	cmd, args, _ = strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd, strings.TrimSpace(args)
}

// matchesCommand reports whether text invokes cmd, with or without a bot
// mention suffix.
func matchesCommand(text, cmd string) bool {
	got, _ := splitCommand(text)
	return got == cmd
}

// commandOrFallthrough verifies that the prefix-matched text really
// invokes want and returns its arguments. A prefix collision such as
// "/muted down" for "/mute" is handed to the regular message path so the
// matcher still sees it.
func (h *Handler) commandOrFallthrough(ctx context.Context, b *bot.Bot, msg *models.Message, want string) (string, bool) {
	cmd, args := splitCommand(msg.Text)
	if cmd == want {
		return args, true
	}
	if isGroupChat(string(msg.Chat.Type)) {
		h.processChatMessage(ctx, b, msg)
	}
	return "", false
}
