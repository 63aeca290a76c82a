package router

import (
	"strings"
	"time"

	tg "github.com/jenli/leadbot/core/telegram"
	"github.com/jenli/leadbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute returns a handler that routes callbacks through the registry.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		key, _ := ParseCallbackData(cb)
		name := "callback." + normalizeHandlerName(key)

		_ = c.Respond()

		cbHandler, ok := reg.GetCallback(key)
		if !ok || cbHandler == nil {
			cbHandler = reg.CallbackNotFound()
			name = "callback.not_found"
		}
		if cbHandler == nil {
			logHandlerSummary(c, name, start, nil)
			return nil
		}
		return handleWithSummary(c, name, start, func() error {
			return cbHandler(c)
		})
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// ParseCallbackData parses Telebot's \f<unique>|<payload> encoding.
// Returns the unique key and the payload (which may be empty).
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	key := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return key, payload
}
