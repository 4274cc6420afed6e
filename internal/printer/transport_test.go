package printer

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakePrinter accepts raw-socket connections and records everything written,
// the way port-9100 firmware behaves: read until the peer closes, never reply.
type fakePrinter struct {
	ln net.Listener

	mu       sync.Mutex
	payloads []string
}

func newFakePrinter(t *testing.T) *fakePrinter {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	fp := &fakePrinter{ln: ln}
	go fp.accept()
	t.Cleanup(func() { ln.Close() })
	return fp
}

func (fp *fakePrinter) accept() {
	for {
		conn, err := fp.ln.Accept()
		if err != nil {
			return
		}
		go func(c net.Conn) {
			defer c.Close()
			data, _ := io.ReadAll(c)
			fp.mu.Lock()
			fp.payloads = append(fp.payloads, string(data))
			fp.mu.Unlock()
		}(conn)
	}
}

func (fp *fakePrinter) target() Target {
	addr := fp.ln.Addr().(*net.TCPAddr)
	return Target{IPAddress: addr.IP.String(), Port: addr.Port}
}

func (fp *fakePrinter) received() []string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	out := make([]string, len(fp.payloads))
	copy(out, fp.payloads)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestSend_DeliversMarkup(t *testing.T) {
	t.Parallel()

	fp := newFakePrinter(t)
	c := NewClient(2*time.Second, time.Second, time.Millisecond)

	markup := "^XA^FO20,20^FDHELLO^FS^XZ"
	if err := c.Send(context.Background(), fp.target(), markup); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	waitFor(t, func() bool { return len(fp.received()) == 1 })
	if got := fp.received()[0]; got != markup {
		t.Fatalf("printer received %q, want %q", got, markup)
	}
}

func TestSend_OneConnectionPerCopy(t *testing.T) {
	t.Parallel()

	fp := newFakePrinter(t)
	c := NewClient(2*time.Second, time.Second, time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := c.Send(context.Background(), fp.target(), "^XA^FDCOPY"+strconv.Itoa(i)+"^XZ"); err != nil {
			t.Fatalf("copy %d: Send returned error: %v", i, err)
		}
	}

	waitFor(t, func() bool { return len(fp.received()) == 3 })
}

func TestSend_ConnectionRefused(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	c := NewClient(time.Second, time.Second, 0)
	err = c.Send(context.Background(), Target{IPAddress: addr.IP.String(), Port: addr.Port}, "^XA^XZ")
	if err == nil {
		t.Fatalf("expected error sending to closed port")
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("expected ErrConnectionFailed, got %v", err)
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	fp := newFakePrinter(t)
	c := NewClient(time.Second, time.Second, 0)

	if err := c.Probe(context.Background(), fp.target()); err != nil {
		t.Fatalf("Probe against live listener returned error: %v", err)
	}

	fp.ln.Close()
	if err := c.Probe(context.Background(), fp.target()); err == nil {
		t.Fatalf("expected Probe error after listener closed")
	}
}

func TestLockTable_SameAddrSharesLock(t *testing.T) {
	t.Parallel()

	var lt lockTable
	a := lt.get("10.0.0.5:9100")
	b := lt.get("10.0.0.5:9100")
	if a != b {
		t.Fatalf("expected same mutex for same address")
	}
	if other := lt.get("10.0.0.6:9100"); other == a {
		t.Fatalf("expected distinct mutex for distinct address")
	}
}
