package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/recent-mcp/internal/cache"
	"github.com/leonardcser/recent-mcp/internal/journal"
	"github.com/leonardcser/recent-mcp/internal/recency"
)

// Handler is the signature mcp-go expects for tool handlers.
type Handler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Default number of history entries returned by contact-history.
const defaultHistoryLimit = 10

// TouchHandler returns the MCP tool handler for the "contact-touch" tool.
func TouchHandler(store cache.Store) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		name, err := requireName(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := store.Touch(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatOutcome(name, out)), nil
	}
}

// CheckHandler returns the MCP tool handler for the "contact-check" tool.
func CheckHandler(store cache.Store) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := requireName(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		found, err := store.Contains(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if found {
			return mcp.NewToolResultText(name + " is in the chat list."), nil
		}
		return mcp.NewToolResultText(name + " is not in the chat list."), nil
	}
}

// ListHandler returns the MCP tool handler for the "contact-list" tool.
func ListHandler(store cache.Store) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var (
			keys  []string
			err   error
			title string
		)
		switch order := req.GetString("order", "recent"); order {
		case "recent":
			keys, err = store.Snapshot()
			title = "Chat History"
		case "alpha":
			keys, err = store.Sorted()
			title = "Contacts (A-Z)"
		default:
			return mcp.NewToolResultError(fmt.Sprintf("order must be \"recent\" or \"alpha\", got %q", order)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatList(title, keys)), nil
	}
}

// RemoveHandler returns the MCP tool handler for the "contact-remove" tool.
func RemoveHandler(store cache.Store) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := requireName(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		found, err := store.Remove(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !found {
			return mcp.NewToolResultText(name + " was not in the chat list."), nil
		}
		return mcp.NewToolResultText(name + " removed from the chat list."), nil
	}
}

// HistoryHandler returns the MCP tool handler for the "contact-history" tool.
func HistoryHandler(store cache.Store) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", defaultHistoryLimit)
		if limit <= 0 {
			return mcp.NewToolResultError("limit must be positive"), nil
		}
		recs, err := store.History(limit)
		if errors.Is(err, cache.ErrNoJournal) {
			return mcp.NewToolResultText("History is disabled."), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatHistory(recs)), nil
	}
}

func requireName(req mcp.CallToolRequest) (string, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("name must not be empty")
	}
	return name, nil
}

func formatOutcome(name string, out recency.Outcome) string {
	switch out.Kind {
	case recency.Hit:
		if !out.Promoted {
			return name + " is already the most recent contact."
		}
		return name + " moved to the top of the chat list."
	case recency.InsertedWithEviction:
		return fmt.Sprintf("%s added to the top of the chat list; %s dropped off the end.", name, out.Evicted)
	default:
		return name + " added to the top of the chat list."
	}
}

func formatList(title string, keys []string) string {
	if len(keys) == 0 {
		return "No contacts yet."
	}
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString(" -\n")
	for i, k := range keys {
		fmt.Fprintf(&sb, "%d. %s", i+1, k)
		if i < len(keys)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatHistory(recs []journal.Record) string {
	if len(recs) == 0 {
		return "No history yet."
	}
	var sb strings.Builder
	for i, r := range recs {
		fmt.Fprintf(&sb, "#%d %s %s %s", r.Seq, r.At.Format(time.RFC3339), r.Key, r.Outcome)
		if r.Evicted != "" {
			sb.WriteString(" (dropped ")
			sb.WriteString(r.Evicted)
			sb.WriteString(")")
		}
		if i < len(recs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
