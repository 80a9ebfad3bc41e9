package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ashaai/asha-server/internal/db"
)

func msg(role Role, content string) Message {
	return Message{ID: uuid.NewString(), Role: role, Content: content, At: time.Now().UTC()}
}

// storeUnderTest runs the shared Store contract tests against an
// implementation.
func storeUnderTest(t *testing.T, store Store) {
	ctx := context.Background()
	key := Key{UserID: "u1", ChatTitle: "c1"}

	t.Run("history of unknown key is empty", func(t *testing.T) {
		history, err := store.History(ctx, Key{UserID: "nobody", ChatTitle: "nothing"})
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("expected empty history, got %d messages", len(history))
		}
	})

	t.Run("appends preserve arrival order", func(t *testing.T) {
		m1 := msg(RoleUser, "first")
		m2 := msg(RoleAssistant, "second")
		if err := store.Append(ctx, key, m1); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if err := store.Append(ctx, key, m2); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		history, err := store.History(ctx, key)
		if err != nil {
			t.Fatalf("History failed: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(history))
		}
		if history[0].Content != "first" || history[1].Content != "second" {
			t.Errorf("order violated: %q then %q", history[0].Content, history[1].Content)
		}
	})

	t.Run("chats groups by title", func(t *testing.T) {
		other := Key{UserID: "u1", ChatTitle: "another"}
		if err := store.Append(ctx, other, msg(RoleUser, "hello")); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		chats, err := store.Chats(ctx, "u1")
		if err != nil {
			t.Fatalf("Chats failed: %v", err)
		}
		if len(chats) != 2 {
			t.Fatalf("expected 2 chats, got %d", len(chats))
		}
	})

	t.Run("clear removes one transcript", func(t *testing.T) {
		if err := store.Clear(ctx, key); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		history, _ := store.History(ctx, key)
		if len(history) != 0 {
			t.Errorf("expected cleared transcript, got %d messages", len(history))
		}
		// The other chat survives.
		chats, _ := store.Chats(ctx, "u1")
		if len(chats) != 1 {
			t.Errorf("expected 1 surviving chat, got %d", len(chats))
		}
	})

	t.Run("clear all removes everything", func(t *testing.T) {
		if err := store.ClearAll(ctx); err != nil {
			t.Fatalf("ClearAll failed: %v", err)
		}
		chats, _ := store.Chats(ctx, "u1")
		if len(chats) != 0 {
			t.Errorf("expected no chats, got %d", len(chats))
		}
	})
}

func TestMemoryStoreContract(t *testing.T) {
	storeUnderTest(t, NewMemoryStore(0, 0))
}

func TestSQLiteStoreContract(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory failed: %v", err)
	}
	defer database.Close()
	storeUnderTest(t, NewSQLiteStore(database))
}

func TestMemoryStoreMessageCap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, 3)
	key := Key{UserID: "u1", ChatTitle: "c1"}

	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, key, msg(RoleUser, fmt.Sprintf("m%d", i))); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	history, _ := store.History(ctx, key)
	if len(history) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(history))
	}
	if history[0].Content != "m2" {
		t.Errorf("expected oldest messages dropped first, head is %q", history[0].Content)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, 0)

	current := time.Now()
	store.now = func() time.Time { return current }

	key := Key{UserID: "u1", ChatTitle: "c1"}
	if err := store.Append(ctx, key, msg(RoleUser, "hello")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Within the TTL the transcript is visible.
	if history, _ := store.History(ctx, key); len(history) != 1 {
		t.Fatalf("expected 1 message before expiry, got %d", len(history))
	}

	// Past the TTL the transcript reads as empty and a fresh append starts over.
	current = current.Add(2 * time.Minute)
	if history, _ := store.History(ctx, key); len(history) != 0 {
		t.Errorf("expected expired transcript to read empty, got %d", len(history))
	}
	if err := store.Append(ctx, key, msg(RoleUser, "again")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if history, _ := store.History(ctx, key); len(history) != 1 {
		t.Errorf("expected fresh transcript after expiry, got %d messages", len(history))
	}
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, 0)
	key := Key{UserID: "u1", ChatTitle: "c1"}

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				// Each call appends a user/assistant pair; pairs must never
				// interleave.
				store.Append(ctx, key, msg(RoleUser, "q"), msg(RoleAssistant, "a"))
			}
		}()
	}
	wg.Wait()

	history, _ := store.History(ctx, key)
	if len(history) != writers*perWriter*2 {
		t.Fatalf("expected %d messages, got %d", writers*perWriter*2, len(history))
	}
	for i := 0; i < len(history); i += 2 {
		if history[i].Role != RoleUser || history[i+1].Role != RoleAssistant {
			t.Fatalf("pair interleaved at index %d", i)
		}
	}
}
