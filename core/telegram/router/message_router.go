// Package router dispatches incoming updates to the intercept hook, the
// active conversation, registered commands, or the fallback, in that order.
package router

import (
	"time"

	tg "github.com/jenli/leadbot/core/telegram"
	"github.com/jenli/leadbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Conversation is the minimal interface of an active-dialog manager.
type Conversation interface {
	InProgress(sessionID string) bool
	HandleActive(c tele.Context) error
}

// SessionIDFunc derives the conversation session id from an update.
type SessionIDFunc func(c tele.Context) string

// TextOptions controls text routing behaviour.
type TextOptions struct {
	// Intercept runs before any stage dispatch; returning true consumes
	// the update without touching the conversation state.
	Intercept func(c tele.Context) (bool, error)

	SessionID   SessionIDFunc
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler chain for plain text updates.
func TextRoutes(conv Conversation, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if opts.Intercept != nil {
			handled, err := opts.Intercept(c)
			if handled || err != nil {
				logHandlerSummary(c, "intercept", start, err)
				return err
			}
		}

		if conv != nil && opts.SessionID != nil && conv.InProgress(opts.SessionID(c)) {
			return handleWithSummary(c, "dialog", start, func() error {
				return conv.HandleActive(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				return handleWithSummary(c, normalizeHandlerName(key), start, func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
