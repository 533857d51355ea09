package main

import (
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/recent-mcp/internal/cache"
	"github.com/leonardcser/recent-mcp/internal/config"
	"github.com/leonardcser/recent-mcp/internal/logger"
	tools "github.com/leonardcser/recent-mcp/internal/tools"
)

// daemonBinary is the file name of the cache daemon built from cmd/cache-server.
const daemonBinary = "recent-mcp-cache"

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting recent-mcp server")

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("config: %v", err)
		panic(err)
	}

	// Connect to cache daemon; start it if needed, then connect.
	sock := cfg.SocketPath
	logger.Infof("Attempting to connect to cache daemon at %s", sock)
	client, err := connectCache(sock)
	if err != nil {
		logger.Warnf("Failed to connect to cache daemon: %v, attempting to start daemon", err)
		if startErr := startCacheDaemon(); startErr != nil {
			logger.Errorf("Failed to start cache daemon: %v", startErr)
		} else {
			logger.Infof("Cache daemon started successfully")
		}
		// wait for socket to appear
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if c2, err2 := connectCache(sock); err2 == nil {
				client = c2
				err = nil
				break
			}
			time.Sleep(200 * time.Millisecond)
		}
		if client == nil {
			logger.Errorf("Failed to connect to cache daemon after startup attempt: %v", err)
			panic(err)
		}
	}
	if st, err := client.Stats(); err == nil {
		logger.Infof("Connected to cache daemon: %d/%d contacts", st.Len, st.Cap)
	}

	s := server.NewMCPServer(
		"Recent MCP",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	nameArg := mcp.WithString("name", mcp.Required(), mcp.Description("The contact name"))

	s.AddTool(mcp.NewTool("contact-touch",
		mcp.WithDescription(multiline(
			"Records that a contact was just talked to",
			"\nFunctionality:",
			"- Moves the contact to the top of the chat list, adding it if new",
			"- When the list is full, the least recently contacted entry is dropped",
			"- Touching the contact already at the top changes nothing",
		)),
		nameArg,
	), tools.TouchHandler(client))

	s.AddTool(mcp.NewTool("contact-check",
		mcp.WithDescription("Reports whether a contact is currently in the chat list. Read-only."),
		nameArg,
	), tools.CheckHandler(client))

	s.AddTool(mcp.NewTool("contact-list",
		mcp.WithDescription(multiline(
			"Shows the chat list",
			"\nUsage notes:",
			"- order \"recent\" (default) lists the most recent contact first",
			"- order \"alpha\" lists contacts alphabetically",
			"- This tool is read-only",
		)),
		mcp.WithString("order", mcp.Enum("recent", "alpha"), mcp.Description("Listing order")),
	), tools.ListHandler(client))

	s.AddTool(mcp.NewTool("contact-remove",
		mcp.WithDescription("Removes a contact from the chat list."),
		nameArg,
	), tools.RemoveHandler(client))

	s.AddTool(mcp.NewTool("contact-history",
		mcp.WithDescription("Shows recent touches recorded by the cache daemon, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries (default 10)")),
	), tools.HistoryHandler(client))
	logger.Infof("Registered contact tools")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }

func connectCache(sock string) (*cache.Client, error) {
	// quick probe
	conn, err := net.DialTimeout("unix", sock, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	_ = conn.Close()
	return cache.NewClient(sock), nil
}

func startCacheDaemon() error {
	// 1) Try cache binary next to this server executable
	if exePath, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exePath), daemonBinary)
		if _, statErr := os.Stat(sibling); statErr == nil {
			return spawn(sibling)
		}
	}

	// 2) Try PATH binary
	if path, err := exec.LookPath(daemonBinary); err == nil {
		return spawn(path)
	}

	// 3) Try local binary in current working directory (best-effort)
	if _, err := os.Stat("./" + daemonBinary); err == nil {
		return spawn("./" + daemonBinary)
	}

	return exec.ErrNotFound
}

func spawn(path string) error {
	cmd := exec.Command(path)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Env = os.Environ()
	return cmd.Start()
}
