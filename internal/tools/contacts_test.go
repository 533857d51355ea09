package tools

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/recent-mcp/internal/cache"
	"github.com/leonardcser/recent-mcp/internal/journal"
	"github.com/leonardcser/recent-mcp/internal/logger"
	"github.com/leonardcser/recent-mcp/internal/recency"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newStore(t *testing.T, capacity int, withJournal bool) cache.Store {
	t.Helper()
	rc, err := recency.New(capacity)
	if err != nil {
		t.Fatalf("recency.New: %v", err)
	}
	var j *journal.Journal
	if withJournal {
		j, err = journal.Open(filepath.Join(t.TempDir(), "j.bbolt"), journal.Options{})
		if err != nil {
			t.Fatalf("journal.Open: %v", err)
		}
		t.Cleanup(func() { _ = j.Close() })
	}
	return cache.NewService(rc, j)
}

func call(t *testing.T, h Handler, args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestTouchMessages(t *testing.T) {
	store := newStore(t, 2, false)
	touch := TouchHandler(store)

	steps := []struct {
		name string
		want string
	}{
		{"alice", "alice added to the top of the chat list."},
		{"alice", "alice is already the most recent contact."},
		{"bob", "bob added to the top of the chat list."},
		{"alice", "alice moved to the top of the chat list."},
		{"  carol ", "carol added to the top of the chat list; bob dropped off the end."},
	}
	for _, s := range steps {
		got, isErr := call(t, touch, map[string]any{"name": s.name})
		if isErr || got != s.want {
			t.Fatalf("touch %q = %q (error=%v), want %q", s.name, got, isErr, s.want)
		}
	}
}

func TestTouchRejectsMissingOrBlankName(t *testing.T) {
	touch := TouchHandler(newStore(t, 2, false))
	if _, isErr := call(t, touch, map[string]any{}); !isErr {
		t.Fatalf("expected error result for missing name")
	}
	if msg, isErr := call(t, touch, map[string]any{"name": "   "}); !isErr || !strings.Contains(msg, "empty") {
		t.Fatalf("blank name = %q (error=%v)", msg, isErr)
	}
}

func TestListOrders(t *testing.T) {
	store := newStore(t, 5, false)
	list := ListHandler(store)

	if got, _ := call(t, list, nil); got != "No contacts yet." {
		t.Fatalf("empty list = %q", got)
	}
	for _, n := range []string{"dave", "alice", "carol"} {
		call(t, TouchHandler(store), map[string]any{"name": n})
	}

	got, _ := call(t, list, map[string]any{})
	if want := "Chat History -\n1. carol\n2. alice\n3. dave"; got != want {
		t.Fatalf("recent list = %q, want %q", got, want)
	}
	got, _ = call(t, list, map[string]any{"order": "alpha"})
	if want := "Contacts (A-Z) -\n1. alice\n2. carol\n3. dave"; got != want {
		t.Fatalf("alpha list = %q, want %q", got, want)
	}
	if _, isErr := call(t, list, map[string]any{"order": "size"}); !isErr {
		t.Fatalf("expected error for unknown order")
	}
}

func TestCheckAndRemove(t *testing.T) {
	store := newStore(t, 3, false)
	call(t, TouchHandler(store), map[string]any{"name": "erin"})

	check := CheckHandler(store)
	if got, _ := call(t, check, map[string]any{"name": "erin"}); got != "erin is in the chat list." {
		t.Fatalf("check = %q", got)
	}

	remove := RemoveHandler(store)
	if got, _ := call(t, remove, map[string]any{"name": "erin"}); got != "erin removed from the chat list." {
		t.Fatalf("remove = %q", got)
	}
	if got, _ := call(t, remove, map[string]any{"name": "erin"}); got != "erin was not in the chat list." {
		t.Fatalf("second remove = %q", got)
	}
	if got, _ := call(t, check, map[string]any{"name": "erin"}); got != "erin is not in the chat list." {
		t.Fatalf("check after remove = %q", got)
	}
}

func TestHistory(t *testing.T) {
	store := newStore(t, 1, true)
	for _, n := range []string{"a", "b"} {
		call(t, TouchHandler(store), map[string]any{"name": n})
	}

	got, isErr := call(t, HistoryHandler(store), map[string]any{"limit": 1})
	if isErr {
		t.Fatalf("history error: %q", got)
	}
	if !strings.HasPrefix(got, "#2 ") || !strings.HasSuffix(got, "b inserted_with_eviction (dropped a)") {
		t.Fatalf("history = %q", got)
	}
	if strings.Contains(got, "\n") {
		t.Fatalf("limit ignored: %q", got)
	}

	disabled := HistoryHandler(newStore(t, 1, false))
	if got, _ := call(t, disabled, nil); got != "History is disabled." {
		t.Fatalf("disabled history = %q", got)
	}
}
