package flow

import (
	"fmt"
	"sync"
	"testing"

	"github.com/jenli/leadbot/internal/i18n"
)

func TestStoreGetOrCreate(t *testing.T) {
	s := NewStore()

	sess := s.GetOrCreate("42:42")
	if sess.Stage != AwaitLanguage {
		t.Fatalf("new session stage = %s, want %s", sess.Stage, AwaitLanguage)
	}
	if sess.Lang != i18n.EN {
		t.Fatalf("new session lang = %s, want EN", sess.Lang)
	}

	s.Update("42:42", func(sess *Session) { sess.Stage = AwaitGoal })
	if again := s.GetOrCreate("42:42"); again.Stage != AwaitGoal {
		t.Fatalf("stage lost on re-read: %s", again.Stage)
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.GetOrCreate("a")
	s.Clear("a")
	if _, ok := s.Get("a"); ok {
		t.Fatal("session survived Clear")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestStoreSessionsAreIsolated(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		id := fmt.Sprintf("chat-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Update(id, func(sess *Session) { sess.Answers.Goal = id })
			}
		}()
	}
	wg.Wait()

	if s.Len() != 16 {
		t.Fatalf("Len = %d, want 16", s.Len())
	}
	for i := 0; i < 16; i++ {
		id := fmt.Sprintf("chat-%d", i)
		sess, ok := s.Get(id)
		if !ok || sess.Answers.Goal != id {
			t.Fatalf("session %s corrupted: %+v", id, sess)
		}
	}
}
