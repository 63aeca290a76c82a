package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/jenli/leadbot/core/telegram/helpers"
	"github.com/jenli/leadbot/core/telegram/keyboard"
	"github.com/jenli/leadbot/core/telegram/router"
	"github.com/jenli/leadbot/internal/flow"
	"github.com/jenli/leadbot/internal/i18n"
)

const langCallbackKey = "lang"

func sessionID(c tele.Context) string {
	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if sender := c.Sender(); sender != nil {
		userID = sender.ID
	}
	return fmt.Sprintf("%d:%d", chatID, userID)
}

func eventFrom(c tele.Context) flow.Event {
	ev := flow.Event{
		SessionID: sessionID(c),
		Text:      c.Text(),
	}
	if sender := c.Sender(); sender != nil {
		ev.UserID = sender.ID
		ev.Handle = sender.Username
		ev.DisplayName = strings.TrimSpace(sender.FirstName + " " + sender.LastName)
	}
	return ev
}

// InProgress makes App satisfy router.Conversation.
func (a *App) InProgress(sessionID string) bool {
	return a.machine.InProgress(sessionID)
}

// HandleActive feeds a text update into the running conversation.
func (a *App) HandleActive(c tele.Context) error {
	return a.handleDialog(c)
}

func (a *App) handleStart(c tele.Context) error {
	ev := eventFrom(c)
	if msg := c.Message(); msg != nil {
		ev.DeepLink = msg.Payload
	}
	reply := a.machine.Start(tghelpers.BuildContext(c), ev)
	return tghelpers.SendText(c, reply.Text, &tele.SendOptions{
		ReplyMarkup: langKeyboard(),
	})
}

func (a *App) handleDialog(c tele.Context) error {
	reply := a.machine.Advance(tghelpers.BuildContext(c), eventFrom(c))
	return sendReply(c, reply)
}

func (a *App) handleHuman(c tele.Context) error {
	reply := a.machine.Handoff(tghelpers.BuildContext(c), eventFrom(c))
	return sendReply(c, reply)
}

func (a *App) handleLangCallback(c tele.Context) error {
	_, payload := router.ParseCallbackData(c.Callback())
	ev := eventFrom(c)
	ev.Selection = payload
	reply := a.machine.Advance(tghelpers.BuildContext(c), ev)
	return sendReply(c, reply)
}

// interceptHandoff consumes any text update asking for a human operator
// before the conversation sees it.
func (a *App) interceptHandoff(c tele.Context) (bool, error) {
	if !flow.IsHandoffRequest(c.Text()) {
		return false, nil
	}
	return true, a.handleHuman(c)
}

func sendReply(c tele.Context, reply flow.Reply) error {
	opts := &tele.SendOptions{DisableWebPagePreview: true}
	switch {
	case len(reply.Options) > 0:
		opts.ReplyMarkup = keyboard.ReplyColumn(reply.Options)
	case reply.RemoveKeyboard:
		opts.ReplyMarkup = keyboard.RemoveKeyboard()
	}
	return tghelpers.SendText(c, reply.Text, opts)
}

func langKeyboard() *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(i18n.Langs))
	for _, lang := range i18n.Langs {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   string(lang),
			Unique: langCallbackKey,
			Data:   string(lang),
		})
	}
	return keyboard.InlineRow(buttons...)
}
