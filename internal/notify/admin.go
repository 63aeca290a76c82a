package notify

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/jenli/leadbot/core/telegram/format"
	"github.com/jenli/leadbot/internal/lead"
)

// telegramSender is the slice of telebot's Bot used by the admin sink.
type telegramSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// AdminSink DMs a formatted lead alert to the admin chat.
type AdminSink struct {
	bot    telegramSender
	chatID int64
}

// NewAdminSink returns nil when no admin chat is configured.
func NewAdminSink(bot telegramSender, chatID int64) *AdminSink {
	if bot == nil || chatID == 0 {
		return nil
	}
	return &AdminSink{bot: bot, chatID: chatID}
}

func (s *AdminSink) Name() string { return "admin" }

func (s *AdminSink) Deliver(_ context.Context, rec lead.Record) error {
	_, err := s.bot.Send(tele.ChatID(s.chatID), adminText(rec), &tele.SendOptions{
		ParseMode:             tele.ModeMarkdown,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("admin dm: %w", err)
	}
	return nil
}

func adminText(rec lead.Record) string {
	from := format.EscapeMarkdown(rec.Name)
	if rec.Username != nil {
		from = fmt.Sprintf("[%s](https://t.me/%s)", from, *rec.Username)
	}

	title := "*New lead*"
	if rec.Event == lead.EventHandoff {
		title = "*Handoff requested*"
	}

	lines := []string{
		title,
		"From: " + from,
		"Service: " + format.EscapeMarkdown(rec.Service),
		"Platform: " + format.EscapeMarkdown(format.DerefString(rec.Platform, "—")),
		"Goal: " + format.EscapeMarkdown(rec.Goal),
		"Budget: " + format.EscapeMarkdown(format.DerefString(rec.Budget, "—")),
		"Links: " + format.DerefString(&rec.StoreLinks, "—"),
		"Email: " + format.EscapeMarkdown(format.DerefString(rec.Email, "—")),
		fmt.Sprintf("Lang: %s | Source: %s", rec.Lang, format.EscapeMarkdown(format.DerefString(rec.Source, "—"))),
		fmt.Sprintf("User id: %d", rec.UserID),
	}
	return strings.Join(lines, "\n")
}
