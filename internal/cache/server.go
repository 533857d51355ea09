package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"

	"github.com/leonardcser/recent-mcp/internal/logger"
)

// Serve accepts connections on l until ctx is canceled or l is closed, and
// answers requests against store. It waits for open connections to finish
// before returning.
func Serve(ctx context.Context, l net.Listener, store Store) error {
	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Warnf("accept: %v", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			stopConn := context.AfterFunc(ctx, func() { _ = conn.Close() })
			defer stopConn()
			handleConn(conn, store)
		}()
	}
}

func handleConn(conn net.Conn, store Store) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}
		if err := enc.Encode(dispatch(store, req)); err != nil {
			logger.Warnf("write response for %s: %v", req.Op, err)
			return
		}
	}
}

func dispatch(store Store, req Request) Response {
	switch req.Op {
	case OpTouch:
		out, err := store.Touch(req.Key)
		if err != nil {
			return errResponse(err)
		}
		return Response{OK: true, Outcome: out.Kind, Promoted: out.Promoted, Evicted: out.Evicted}
	case OpContains:
		found, err := store.Contains(req.Key)
		if err != nil {
			return errResponse(err)
		}
		return Response{OK: true, Found: found}
	case OpSnapshot:
		return keysResponse(store.Snapshot())
	case OpSorted:
		return keysResponse(store.Sorted())
	case OpRemove:
		found, err := store.Remove(req.Key)
		if err != nil {
			return errResponse(err)
		}
		return Response{OK: true, Found: found}
	case OpHistory:
		recs, err := store.History(req.Limit)
		if err != nil {
			return errResponse(err)
		}
		return Response{OK: true, History: recs}
	case OpStats:
		st, err := store.Stats()
		if err != nil {
			return errResponse(err)
		}
		return Response{OK: true, Stats: &st}
	case OpVerify:
		v, ok := store.(interface{ Verify() error })
		if !ok {
			return Response{OK: false, Error: "verify not supported"}
		}
		if err := v.Verify(); err != nil {
			logger.Errorf("verify: %v", err)
			return errResponse(err)
		}
		return Response{OK: true}
	default:
		return Response{OK: false, Error: "unknown op"}
	}
}

func keysResponse(keys []string, err error) Response {
	if err != nil {
		return errResponse(err)
	}
	return Response{OK: true, Keys: keys}
}

func errResponse(err error) Response {
	return Response{OK: false, Error: err.Error()}
}
