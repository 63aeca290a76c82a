package flow

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jenli/leadbot/core/logger"
	"github.com/jenli/leadbot/internal/i18n"
	"github.com/jenli/leadbot/internal/lead"
)

// Event is one inbound user action, already stripped of transport detail.
type Event struct {
	SessionID   string
	Text        string
	Selection   string // button payload, wins over Text when set
	UserID      int64
	DisplayName string
	Handle      string // username without @, may be empty
	DeepLink    string // /start payload, recorded as acquisition source
}

// Reply is what the transport should send back.
type Reply struct {
	Text           string
	Options        []string // reply-keyboard rows, one option per row
	RemoveKeyboard bool
}

// Notifier receives each finalized or handed-off record exactly once.
type Notifier interface {
	Notify(ctx context.Context, rec lead.Record)
}

var handoffRe = regexp.MustCompile(`(?i)(human|operator|менеджер|человек)`)

// IsHandoffRequest reports whether free text asks for a human operator.
func IsHandoffRequest(text string) bool {
	return handoffRe.MatchString(text)
}

// Machine drives the intake conversation over the session store.
type Machine struct {
	store    *Store
	notifier Notifier
}

// NewMachine wires the state machine to its session store and notifier.
func NewMachine(store *Store, notifier Notifier) *Machine {
	return &Machine{store: store, notifier: notifier}
}

// InProgress reports whether a session is mid-conversation.
func (m *Machine) InProgress(sessionID string) bool {
	_, ok := m.store.Get(sessionID)
	return ok
}

// Start resets the session and asks for a language. Identity and the
// deep-link source are captured here so a restart refreshes them.
func (m *Machine) Start(ctx context.Context, ev Event) Reply {
	m.store.Update(ev.SessionID, func(s *Session) {
		s.Stage = AwaitLanguage
		s.Lang = i18n.EN
		s.Answers = Answers{}
		s.UserID = ev.UserID
		s.Username = ev.Handle
		s.Name = ev.DisplayName
		s.Source = strings.TrimSpace(ev.DeepLink)
	})
	logger.Info(ctx, "flow", "session.start",
		slog.String("stage", AwaitLanguage.String()),
		slog.String("payload", logger.SanitizeLimit(ev.DeepLink, 64)),
	)
	return Reply{
		Text:    i18n.Messages(i18n.EN).ChooseLang,
		Options: langOptions(),
	}
}

// Advance feeds one event into the session's current stage and returns
// the next prompt. Rejected input re-prompts without changing stage.
func (m *Machine) Advance(ctx context.Context, ev Event) Reply {
	input := strings.TrimSpace(ev.Selection)
	if input == "" {
		input = strings.TrimSpace(ev.Text)
	}

	sess := m.store.GetOrCreate(ev.SessionID)
	msgs := i18n.Messages(sess.Lang)

	var reply Reply
	next := sess.Stage

	switch sess.Stage {
	case AwaitLanguage:
		lang := i18n.Parse(input)
		m.store.Update(ev.SessionID, func(s *Session) {
			s.Lang = lang
			if s.UserID == 0 {
				s.UserID = ev.UserID
				s.Username = ev.Handle
				s.Name = ev.DisplayName
			}
		})
		next = AwaitService
		msgs = i18n.Messages(lang)
		reply = Reply{Text: msgs.Greet + "\n\n" + msgs.Service, Options: msgs.Services}

	case AwaitService:
		m.store.Update(ev.SessionID, func(s *Session) { s.Answers.Service = input })
		if i18n.ServiceCode(sess.Lang, input) == i18n.ServiceASA {
			next = AwaitGoal
			reply = Reply{Text: msgs.Goal, Options: msgs.Goals}
		} else {
			next = AwaitPlatform
			reply = Reply{Text: msgs.Platform, Options: msgs.Platforms}
		}

	case AwaitPlatform:
		platform := input
		m.store.Update(ev.SessionID, func(s *Session) { s.Answers.Platform = &platform })
		next = AwaitGoal
		reply = Reply{Text: msgs.Goal, Options: msgs.Goals}

	case AwaitGoal:
		m.store.Update(ev.SessionID, func(s *Session) { s.Answers.Goal = input })
		next = AwaitBudget
		reply = Reply{Text: msgs.Budget, Options: []string{lead.SkipToken}}

	case AwaitBudget:
		m.store.Update(ev.SessionID, func(s *Session) {
			if lead.IsSkip(input) {
				s.Answers.Budget = nil
			} else {
				budget := input
				s.Answers.Budget = &budget
			}
		})
		next = AwaitStoreLinks
		reply = Reply{Text: msgs.Store, RemoveKeyboard: true}

	case AwaitStoreLinks:
		if !lead.ValidStoreLink(input) {
			logger.Info(ctx, "flow", "input.rejected",
				slog.String("stage", sess.Stage.String()),
				slog.String("status", "fail"),
			)
			return Reply{Text: msgs.InvalidLink}
		}
		m.store.Update(ev.SessionID, func(s *Session) { s.Answers.StoreLinks = input })
		next = AwaitEmail
		reply = Reply{Text: msgs.Email}

	case AwaitEmail:
		if !lead.ValidEmail(input) {
			logger.Info(ctx, "flow", "input.rejected",
				slog.String("stage", sess.Stage.String()),
				slog.String("status", "fail"),
			)
			return Reply{Text: msgs.InvalidEmail}
		}
		m.store.Update(ev.SessionID, func(s *Session) {
			if lead.IsSkip(input) {
				s.Answers.Email = nil
			} else {
				email := input
				s.Answers.Email = &email
			}
		})
		next = AwaitNotes
		reply = Reply{Text: msgs.Notes}

	case AwaitNotes:
		final := m.store.Update(ev.SessionID, func(s *Session) {
			if input == "" {
				s.Answers.Notes = nil
			} else {
				notes := input
				s.Answers.Notes = &notes
			}
		})
		return m.finalize(ctx, final)
	}

	m.store.Update(ev.SessionID, func(s *Session) { s.Stage = next })
	logger.Info(ctx, "flow", "stage.advance",
		slog.String("stage", next.String()),
		slog.String("lang", string(sess.Lang)),
	)
	return reply
}

// Handoff acknowledges a human-operator request and emits one partial
// record. Stage and answers are left untouched so the flow can resume.
func (m *Machine) Handoff(ctx context.Context, ev Event) Reply {
	sess, ok := m.store.Get(ev.SessionID)
	if !ok {
		sess = Session{Lang: i18n.EN, UserID: ev.UserID, Username: ev.Handle, Name: ev.DisplayName}
	}
	msgs := i18n.Messages(sess.Lang)

	rec := lead.New(lead.EventHandoff)
	rec.UserID = orInt64(sess.UserID, ev.UserID)
	rec.Username = optional(orString(sess.Username, ev.Handle))
	rec.Name = orString(sess.Name, ev.DisplayName)
	rec.Service = orDash(sess.Answers.Service)
	rec.Platform = sess.Answers.Platform
	rec.Goal = orDash(sess.Answers.Goal)
	rec.StoreLinks = orDash(sess.Answers.StoreLinks)
	rec.Lang = sess.Lang
	rec.Source = optional(sess.Source)
	notes := "User requested human handoff"
	rec.Notes = &notes

	logger.Info(ctx, "flow", "handoff.requested",
		slog.String("stage", sess.Stage.String()),
		slog.String("lang", string(sess.Lang)),
	)
	m.notifier.Notify(ctx, rec)
	return Reply{Text: msgs.Human}
}

func (m *Machine) finalize(ctx context.Context, sess Session) Reply {
	msgs := i18n.Messages(sess.Lang)

	rec := lead.New(lead.EventLead)
	rec.UserID = sess.UserID
	rec.Username = optional(sess.Username)
	rec.Name = sess.Name
	rec.Service = sess.Answers.Service
	rec.Platform = sess.Answers.Platform
	rec.Goal = sess.Answers.Goal
	rec.Budget = sess.Answers.Budget
	rec.StoreLinks = sess.Answers.StoreLinks
	rec.Email = sess.Answers.Email
	rec.Notes = sess.Answers.Notes
	rec.Lang = sess.Lang
	rec.Source = optional(sess.Source)

	logger.Info(ctx, "flow", "lead.finalized",
		slog.String("lang", string(sess.Lang)),
		slog.String("service", logger.SanitizeLimit(sess.Answers.Service, 64)),
	)
	m.notifier.Notify(ctx, rec)
	m.store.Clear(sess.ID)
	return Reply{Text: msgs.Summary + "\n\n" + summaryLines(sess), RemoveKeyboard: true}
}

func summaryLines(sess Session) string {
	dash := func(p *string) string {
		if p == nil {
			return "—"
		}
		return *p
	}
	lines := []string{
		fmt.Sprintf("Service: %s", sess.Answers.Service),
		fmt.Sprintf("Platform: %s", dash(sess.Answers.Platform)),
		fmt.Sprintf("Goal: %s", sess.Answers.Goal),
		fmt.Sprintf("Budget: %s", dash(sess.Answers.Budget)),
		fmt.Sprintf("Links: %s", sess.Answers.StoreLinks),
		fmt.Sprintf("Email: %s", dash(sess.Answers.Email)),
	}
	return strings.Join(lines, "\n")
}

func langOptions() []string {
	opts := make([]string, 0, len(i18n.Langs))
	for _, l := range i18n.Langs {
		opts = append(opts, string(l))
	}
	return opts
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func orString(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func orInt64(a, b int64) int64 {
	if a != 0 {
		return a
	}
	return b
}
