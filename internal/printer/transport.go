// Package printer delivers rendered label markup to networked thermal
// printers over the raw port-9100 TCP protocol.
package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

var (
	ErrConnectionFailed = errors.New("connection failed")
	ErrSendFailed       = errors.New("send failed")
)

const (
	defaultSendTimeout  = 10 * time.Second
	defaultProbeTimeout = 5 * time.Second
	defaultSettleDelay  = 500 * time.Millisecond
)

// Target identifies one physical printer. A read-only snapshot of the stored
// printer record; the transport never mutates it.
type Target struct {
	IPAddress     string
	Port          int
	DPI           int
	LabelWidthIn  float64
	LabelHeightIn float64
}

func (t Target) Addr() string {
	return fmt.Sprintf("%s:%d", t.IPAddress, t.Port)
}

// Client sends label documents to printers. The protocol is fire-and-forget:
// there is no acknowledgement channel, so success means only that the bytes
// were accepted by the socket layer within the timeout. Sends to the same
// printer are serialized through a per-target lock; unrelated printers
// proceed in parallel.
type Client struct {
	sendTimeout  time.Duration
	probeTimeout time.Duration
	settleDelay  time.Duration
	locks        lockTable
}

func NewClient(sendTimeout, probeTimeout, settleDelay time.Duration) *Client {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	if settleDelay < 0 {
		settleDelay = defaultSettleDelay
	}
	return &Client{
		sendTimeout:  sendTimeout,
		probeTimeout: probeTimeout,
		settleDelay:  settleDelay,
	}
}

// Send transmits one label document as one connection: dial, single write,
// settle, close. Callers wanting N copies call Send N times; there is no
// batching at the protocol level. The settle delay lets the printer drain its
// input buffer before the connection drops.
func (c *Client) Send(ctx context.Context, target Target, markup string) error {
	mu := c.locks.get(target.Addr())
	mu.Lock()
	defer mu.Unlock()

	dialer := net.Dialer{Timeout: c.sendTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", target.Addr())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConnectionFailed, target.Addr(), err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(c.sendTimeout))
	if _, err := conn.Write([]byte(markup)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSendFailed, target.Addr(), err)
	}

	if c.settleDelay > 0 {
		select {
		case <-time.After(c.settleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// Probe reports whether the printer accepts connections. No bytes are
// written; this is the closest thing to an online/offline verdict the
// firmware offers.
func (c *Client) Probe(ctx context.Context, target Target) error {
	dialer := net.Dialer{Timeout: c.probeTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", target.Addr())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConnectionFailed, target.Addr(), err)
	}
	return conn.Close()
}
