package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/services/ollama"
	"github.com/sahilchouksey/college-hub/utils/logger"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"
)

// fakeModel is a scripted ChatModel.
type fakeModel struct {
	mu        sync.Mutex
	available bool
	reply     string
	chatErr   error
	tokens    []string
	streamErr error

	pings   int
	chats   [][]ollama.Message
	streams [][]ollama.Message
}

func (f *fakeModel) Ping(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.available
}

func (f *fakeModel) Chat(ctx context.Context, messages []ollama.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, messages)
	return f.reply, f.chatErr
}

func (f *fakeModel) StreamChat(ctx context.Context, messages []ollama.Message) <-chan ollama.StreamChunk {
	f.mu.Lock()
	f.streams = append(f.streams, messages)
	tokens, streamErr := f.tokens, f.streamErr
	f.mu.Unlock()

	ch := make(chan ollama.StreamChunk)
	go func() {
		defer close(ch)
		for _, tok := range tokens {
			select {
			case ch <- ollama.StreamChunk{Content: tok}:
			case <-ctx.Done():
				return
			}
		}
		if streamErr != nil {
			select {
			case ch <- ollama.StreamChunk{Err: streamErr}:
			case <-ctx.Done():
			}
		}
	}()
	return ch
}

func setupTestStore(t *testing.T) *database.GORMStore {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := database.SQLiteDSN(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))

	store, err := database.Open(sqlite.Open(dsn), gormlogger.Default.LogMode(gormlogger.Silent), logger.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Init(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return store
}
