package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/leonardcser/recent-mcp/internal/journal"
	"github.com/leonardcser/recent-mcp/internal/recency"
)

const (
	dialTimeout    = 500 * time.Millisecond
	requestTimeout = 2 * time.Second
)

// Client implements Store over a Unix socket, one connection per call.
type Client struct {
	socketPath string
}

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

func (c *Client) roundTrip(req Request) (Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, dialTimeout)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(requestTimeout))

	if err := json.NewEncoder(conn).Encode(&req); err != nil {
		return Response{}, fmt.Errorf("cache: send %s: %w", req.Op, err)
	}
	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("cache: read %s: %w", req.Op, err)
	}
	if !resp.OK {
		return resp, remoteError(resp.Error)
	}
	return resp, nil
}

// remoteError maps error strings back to the sentinels callers test for,
// keeping any detail the server appended after the sentinel text.
func remoteError(msg string) error {
	for _, sentinel := range []error{recency.ErrEmptyKey, ErrNoJournal, recency.ErrInvariant} {
		text := sentinel.Error()
		if msg == text {
			return sentinel
		}
		if rest, ok := strings.CutPrefix(msg, text+": "); ok {
			return fmt.Errorf("%w: %s", sentinel, rest)
		}
	}
	return errors.New(msg)
}

func (c *Client) Touch(key string) (recency.Outcome, error) {
	resp, err := c.roundTrip(Request{Op: OpTouch, Key: key})
	if err != nil {
		return recency.Outcome{}, err
	}
	return recency.Outcome{Kind: resp.Outcome, Promoted: resp.Promoted, Evicted: resp.Evicted}, nil
}

func (c *Client) Contains(key string) (bool, error) {
	resp, err := c.roundTrip(Request{Op: OpContains, Key: key})
	return resp.Found, err
}

func (c *Client) Snapshot() ([]string, error) {
	resp, err := c.roundTrip(Request{Op: OpSnapshot})
	return resp.Keys, err
}

func (c *Client) Sorted() ([]string, error) {
	resp, err := c.roundTrip(Request{Op: OpSorted})
	return resp.Keys, err
}

func (c *Client) Remove(key string) (bool, error) {
	resp, err := c.roundTrip(Request{Op: OpRemove, Key: key})
	return resp.Found, err
}

func (c *Client) History(limit int) ([]journal.Record, error) {
	resp, err := c.roundTrip(Request{Op: OpHistory, Limit: limit})
	return resp.History, err
}

func (c *Client) Stats() (Stats, error) {
	resp, err := c.roundTrip(Request{Op: OpStats})
	if err != nil {
		return Stats{}, err
	}
	if resp.Stats == nil {
		return Stats{}, errors.New("cache: stats missing from response")
	}
	return *resp.Stats, nil
}

// Verify asks the daemon to check its cache's internal consistency.
func (c *Client) Verify() error {
	_, err := c.roundTrip(Request{Op: OpVerify})
	return err
}
