package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/jenli/leadbot/internal/i18n"
	"github.com/jenli/leadbot/internal/lead"
)

func sampleLead() lead.Record {
	rec := lead.New(lead.EventLead)
	rec.UserID = 99
	rec.Name = "Dana"
	username := "dana"
	rec.Username = &username
	rec.Service = "ASO"
	platform := "iOS"
	rec.Platform = &platform
	rec.Goal = "More installs"
	rec.StoreLinks = "https://apps.apple.com/de/app/foo/id123"
	rec.Lang = i18n.EN
	return rec
}

type fakeSink struct {
	name  string
	err   error
	calls atomic.Int64
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Deliver(context.Context, lead.Record) error {
	s.calls.Add(1)
	return s.err
}

func TestNotifierDeliversToAllSinks(t *testing.T) {
	admin := &fakeSink{name: "admin"}
	a := &fakeSink{name: "a"}
	b := &fakeSink{name: "b", err: errors.New("endpoint down")}

	n := New(Options{Admin: admin, Async: []Sink{a, b}, Timeout: time.Second})
	n.Notify(context.Background(), sampleLead())
	n.Drain()

	if admin.calls.Load() != 1 || a.calls.Load() != 1 || b.calls.Load() != 1 {
		t.Fatalf("calls = %d/%d/%d, want 1 each", admin.calls.Load(), a.calls.Load(), b.calls.Load())
	}
}

func TestNotifierSkipsUnconfiguredSinks(t *testing.T) {
	n := New(Options{Admin: nil, Async: []Sink{nil}})
	n.Notify(context.Background(), sampleLead())
	n.Drain()
}

func TestWebhookSinkPostsRecordJSON(t *testing.T) {
	var got lead.Record
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad payload: %v", err)
		}
	}))
	defer srv.Close()

	rec := sampleLead()
	sink := NewWebhookSink(srv.URL, srv.Client())
	if err := sink.Deliver(context.Background(), rec); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if got.ID != rec.ID || got.Service != "ASO" || got.UserID != 99 {
		t.Fatalf("delivered record mismatch: %+v", got)
	}
	if got.Budget != nil {
		t.Fatalf("absent budget should not round-trip, got %v", *got.Budget)
	}
}

func TestWebhookSinkRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, srv.Client())
	if err := sink.Deliver(context.Background(), sampleLead()); err == nil {
		t.Fatal("want error on 502")
	}
}

func TestSlackCardDerivedFields(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		raw = string(body)
	}))
	defer srv.Close()

	rec := sampleLead()
	notes := "tight deadline"
	rec.Notes = &notes

	sink := NewSlackSink(srv.URL, srv.Client())
	if err := sink.Deliver(context.Background(), rec); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	for _, want := range []string{
		"*Store:*\\nApp Store (iOS)",
		"*Country:*\\nDE",
		"<https://t.me/dana|Dana>",
		"*Notes:*\\ntight deadline",
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("card missing %q:\n%s", want, raw)
		}
	}
}

func TestSlackCardOmitsEmptyNotes(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		raw = string(body)
	}))
	defer srv.Close()

	sink := NewSlackSink(srv.URL, srv.Client())
	if err := sink.Deliver(context.Background(), sampleLead()); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if strings.Contains(raw, "*Notes:*") {
		t.Errorf("card should omit notes section:\n%s", raw)
	}
}

type fakeBot struct {
	to   tele.Recipient
	text string
}

func (b *fakeBot) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	b.to = to
	b.text, _ = what.(string)
	return &tele.Message{}, nil
}

func TestAdminSinkFormatsAlert(t *testing.T) {
	bot := &fakeBot{}
	sink := NewAdminSink(bot, 555)
	if err := sink.Deliver(context.Background(), sampleLead()); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if bot.to.Recipient() != "555" {
		t.Errorf("recipient = %q", bot.to.Recipient())
	}
	for _, want := range []string{
		"*New lead*",
		"[Dana](https://t.me/dana)",
		"Service: ASO",
		"Budget: —",
		"User id: 99",
	} {
		if !strings.Contains(bot.text, want) {
			t.Errorf("alert missing %q:\n%s", want, bot.text)
		}
	}
}

func TestAdminSinkUnconfigured(t *testing.T) {
	if NewAdminSink(nil, 0) != nil {
		t.Fatal("want nil sink without bot and chat id")
	}
	if NewAdminSink(&fakeBot{}, 0) != nil {
		t.Fatal("want nil sink without chat id")
	}
}
