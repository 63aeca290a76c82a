package bot

import (
	"testing"

	coreconfig "github.com/jenli/leadbot/core/config"
)

func TestLangKeyboard(t *testing.T) {
	markup := langKeyboard()
	if len(markup.InlineKeyboard) != 1 {
		t.Fatalf("rows = %d, want 1", len(markup.InlineKeyboard))
	}
	row := markup.InlineKeyboard[0]
	if len(row) != 3 {
		t.Fatalf("buttons = %d, want 3", len(row))
	}
	for i, want := range []string{"EN", "RU", "ES"} {
		if row[i].Text != want {
			t.Errorf("button %d text = %q, want %q", i, row[i].Text, want)
		}
		if row[i].Unique != langCallbackKey {
			t.Errorf("button %d unique = %q", i, row[i].Unique)
		}
	}
}

func TestRegistryWiring(t *testing.T) {
	a := New(&coreconfig.Config{}, nil)
	reg := a.Registry()

	if _, _, ok := reg.LookupCommand("/start"); !ok {
		t.Error("/start not registered")
	}
	if _, _, ok := reg.LookupCommand("/human"); !ok {
		t.Error("/human not registered")
	}
	if _, ok := reg.GetCallback(langCallbackKey); !ok {
		t.Error("lang callback not registered")
	}
	if reg.TextFallback() == nil {
		t.Error("text fallback not set")
	}
}
