package flow

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/jenli/leadbot/internal/i18n"
	"github.com/jenli/leadbot/internal/lead"
)

type captureNotifier struct {
	mu      sync.Mutex
	records []lead.Record
}

func (n *captureNotifier) Notify(_ context.Context, rec lead.Record) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.records = append(n.records, rec)
}

func (n *captureNotifier) all() []lead.Record {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]lead.Record(nil), n.records...)
}

func newTestMachine() (*Machine, *Store, *captureNotifier) {
	store := NewStore()
	notifier := &captureNotifier{}
	return NewMachine(store, notifier), store, notifier
}

func ev(text string) Event {
	return Event{SessionID: "7:7", Text: text, UserID: 7, DisplayName: "Dana", Handle: "dana"}
}

func TestFullIntakeWalkthrough(t *testing.T) {
	ctx := context.Background()
	m, store, notifier := newTestMachine()

	reply := m.Start(ctx, Event{SessionID: "7:7", UserID: 7, DisplayName: "Dana", Handle: "dana", DeepLink: "promo_x"})
	if reply.Text != i18n.Messages(i18n.EN).ChooseLang {
		t.Fatalf("start prompt = %q", reply.Text)
	}
	if len(reply.Options) != 3 {
		t.Fatalf("start options = %v", reply.Options)
	}

	reply = m.Advance(ctx, ev("EN"))
	if !strings.Contains(reply.Text, "Jenli ASO Assistant") {
		t.Fatalf("greet missing: %q", reply.Text)
	}
	if len(reply.Options) != 3 {
		t.Fatalf("service options = %v", reply.Options)
	}

	reply = m.Advance(ctx, ev("ASO"))
	if reply.Text != i18n.Messages(i18n.EN).Platform {
		t.Fatalf("expected platform prompt, got %q", reply.Text)
	}

	reply = m.Advance(ctx, ev("iOS"))
	if reply.Text != i18n.Messages(i18n.EN).Goal {
		t.Fatalf("expected goal prompt, got %q", reply.Text)
	}

	reply = m.Advance(ctx, ev("More installs"))
	if reply.Text != i18n.Messages(i18n.EN).Budget {
		t.Fatalf("expected budget prompt, got %q", reply.Text)
	}
	if len(reply.Options) != 1 || reply.Options[0] != "skip" {
		t.Fatalf("budget options = %v", reply.Options)
	}

	reply = m.Advance(ctx, ev("skip"))
	if reply.Text != i18n.Messages(i18n.EN).Store {
		t.Fatalf("expected store prompt, got %q", reply.Text)
	}
	if !reply.RemoveKeyboard {
		t.Fatal("store prompt should remove the keyboard")
	}

	reply = m.Advance(ctx, ev("https://play.google.com/store/apps/details?id=com.x&gl=DE"))
	if reply.Text != i18n.Messages(i18n.EN).Email {
		t.Fatalf("expected email prompt, got %q", reply.Text)
	}

	reply = m.Advance(ctx, ev("skip"))
	if reply.Text != i18n.Messages(i18n.EN).Notes {
		t.Fatalf("expected notes prompt, got %q", reply.Text)
	}

	reply = m.Advance(ctx, ev("ok thanks"))
	if !strings.HasPrefix(reply.Text, i18n.Messages(i18n.EN).Summary) {
		t.Fatalf("expected summary, got %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "Service: ASO") || !strings.Contains(reply.Text, "Budget: —") {
		t.Fatalf("summary lines wrong: %q", reply.Text)
	}

	recs := notifier.all()
	if len(recs) != 1 {
		t.Fatalf("notifications = %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Event != lead.EventLead {
		t.Errorf("event = %q", rec.Event)
	}
	if rec.Service != "ASO" || rec.Goal != "More installs" {
		t.Errorf("answers wrong: %+v", rec)
	}
	if rec.Platform == nil || *rec.Platform != "iOS" {
		t.Errorf("platform = %v", rec.Platform)
	}
	if rec.Budget != nil {
		t.Errorf("skipped budget should be absent, got %v", *rec.Budget)
	}
	if rec.Email != nil {
		t.Errorf("skipped email should be absent, got %v", *rec.Email)
	}
	if rec.Notes == nil || *rec.Notes != "ok thanks" {
		t.Errorf("notes = %v", rec.Notes)
	}
	if rec.Source == nil || *rec.Source != "promo_x" {
		t.Errorf("source = %v", rec.Source)
	}
	if rec.UserID != 7 || rec.Name != "Dana" {
		t.Errorf("identity wrong: %+v", rec)
	}
	if rec.ID == uuid.Nil {
		t.Error("record id not set")
	}

	if _, ok := store.Get("7:7"); ok {
		t.Fatal("session should be cleared after finalization")
	}

	// Next event starts over at the language stage.
	reply = m.Advance(ctx, ev("hello again"))
	if len(reply.Options) != 3 {
		t.Fatalf("restart should offer service options, got %v", reply.Options)
	}
}

func TestASASkipsPlatform(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestMachine()

	m.Start(ctx, ev(""))
	m.Advance(ctx, ev("EN"))
	reply := m.Advance(ctx, ev("Apple Search Ads (ASA)"))
	if reply.Text != i18n.Messages(i18n.EN).Goal {
		t.Fatalf("ASA should jump to goal prompt, got %q", reply.Text)
	}
	sess, _ := store.Get("7:7")
	if sess.Stage != AwaitGoal {
		t.Fatalf("stage = %s, want %s", sess.Stage, AwaitGoal)
	}
	if sess.Answers.Platform != nil {
		t.Fatalf("platform should stay absent, got %v", *sess.Answers.Platform)
	}
}

func TestInvalidInputsReprompt(t *testing.T) {
	ctx := context.Background()
	m, store, notifier := newTestMachine()

	m.Start(ctx, ev(""))
	m.Advance(ctx, ev("RU"))
	m.Advance(ctx, ev("ASO"))
	m.Advance(ctx, ev("Android"))
	m.Advance(ctx, ev("Больше установок"))
	m.Advance(ctx, ev("500$"))

	reply := m.Advance(ctx, ev("https://example.com/app"))
	if reply.Text != i18n.Messages(i18n.RU).InvalidLink {
		t.Fatalf("expected localized link rejection, got %q", reply.Text)
	}
	sess, _ := store.Get("7:7")
	if sess.Stage != AwaitStoreLinks {
		t.Fatalf("rejection must not advance stage, got %s", sess.Stage)
	}

	m.Advance(ctx, ev("https://apps.apple.com/ru/app/foo/id1"))
	reply = m.Advance(ctx, ev("not-an-email"))
	if reply.Text != i18n.Messages(i18n.RU).InvalidEmail {
		t.Fatalf("expected localized email rejection, got %q", reply.Text)
	}
	sess, _ = store.Get("7:7")
	if sess.Stage != AwaitEmail {
		t.Fatalf("rejection must not advance stage, got %s", sess.Stage)
	}
	if len(notifier.all()) != 0 {
		t.Fatal("no notification before finalization")
	}
}

func TestUnknownLanguageDefaultsToEnglish(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newTestMachine()

	m.Start(ctx, ev(""))
	m.Advance(ctx, ev("Deutsch"))
	sess, _ := store.Get("7:7")
	if sess.Lang != i18n.EN {
		t.Fatalf("lang = %s, want EN", sess.Lang)
	}
	if sess.Stage != AwaitService {
		t.Fatalf("stage = %s, want %s", sess.Stage, AwaitService)
	}
}

func TestHandoffLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	m, store, notifier := newTestMachine()

	m.Start(ctx, ev(""))
	m.Advance(ctx, ev("ES"))
	m.Advance(ctx, ev("ASO"))

	before, _ := store.Get("7:7")
	reply := m.Handoff(ctx, ev("quiero un humano"))
	if reply.Text != i18n.Messages(i18n.ES).Human {
		t.Fatalf("expected localized handoff ack, got %q", reply.Text)
	}

	after, _ := store.Get("7:7")
	if after.Stage != before.Stage || after.Answers != before.Answers {
		t.Fatalf("handoff mutated session: %+v vs %+v", before, after)
	}

	recs := notifier.all()
	if len(recs) != 1 {
		t.Fatalf("notifications = %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.Event != lead.EventHandoff {
		t.Errorf("event = %q", rec.Event)
	}
	if rec.Service != "ASO" {
		t.Errorf("service = %q", rec.Service)
	}
	if rec.Goal != "—" || rec.StoreLinks != "—" {
		t.Errorf("placeholders missing: %+v", rec)
	}
	if rec.Lang != i18n.ES {
		t.Errorf("lang = %s", rec.Lang)
	}
}

func TestHandoffWithoutSession(t *testing.T) {
	ctx := context.Background()
	m, store, notifier := newTestMachine()

	reply := m.Handoff(ctx, ev("operator please"))
	if reply.Text != i18n.Messages(i18n.EN).Human {
		t.Fatalf("expected EN handoff ack, got %q", reply.Text)
	}
	if _, ok := store.Get("7:7"); ok {
		t.Fatal("handoff must not create a session")
	}
	recs := notifier.all()
	if len(recs) != 1 || recs[0].UserID != 7 {
		t.Fatalf("records = %+v", recs)
	}
}

func TestIsHandoffRequest(t *testing.T) {
	for _, text := range []string{"/human", "HUMAN please", "нужен менеджер", "дайте Человек а", "operator"} {
		if !IsHandoffRequest(text) {
			t.Errorf("IsHandoffRequest(%q) = false", text)
		}
	}
	for _, text := range []string{"hum", "менедж", "hola"} {
		if IsHandoffRequest(text) {
			t.Errorf("IsHandoffRequest(%q) = true", text)
		}
	}
}
