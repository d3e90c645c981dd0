// Package central is the remote end of the wearable link: it
// establishes the handshake through an HM-10 style module, selects
// sampling periods and reads telemetry records.
package central

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/wearable/pkg/link"
)

// Module responses.
const (
	respConnected = "OK+CONN"
	respConnFail  = "OK+CONNF"
	respConnErr   = "OK+CONNE"
	respLost      = "OK+LOST"
	respConfirmed = "#"
)

// SetupCommands configure a local HM-10 as a central.
var SetupCommands = []string{"AT+IMME1", "AT+NOTI1", "AT+ROLE1", "AT+RESET"}

// Defaults.
const (
	DefaultMaxTries       = 20
	DefaultReconnectTries = 10
	DefaultRetryInterval  = 500 * time.Millisecond
	DefaultReadTimeout    = time.Second
	DefaultPollInterval   = time.Millisecond
	DefaultSettleInterval = 200 * time.Millisecond
)

// Central talks to the device over a Transport.
type Central struct {
	Transport link.Transport
	// Peripheral is the MAC address of the remote module. Empty means
	// the transport is already a transparent link to the device.
	Peripheral string

	MaxTries       int
	ReconnectTries int
	RetryInterval  time.Duration
	ReadTimeout    time.Duration
	PollInterval   time.Duration
	// SettleInterval is the wait after selecting a period before
	// discarding input received under the previous one.
	SettleInterval time.Duration
}

// New creates a Central with defaults.
func New(t link.Transport, peripheral string) *Central {
	return &Central{
		Transport:      t,
		Peripheral:     peripheral,
		MaxTries:       DefaultMaxTries,
		ReconnectTries: DefaultReconnectTries,
		RetryInterval:  DefaultRetryInterval,
		ReadTimeout:    DefaultReadTimeout,
		PollInterval:   DefaultPollInterval,
		SettleInterval: DefaultSettleInterval,
	}
}

func (c *Central) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Write writes a message.
func (c *Central) Write(msg string) error {
	glog.V(2).Infof("SND %q", msg)
	_, err := io.WriteString(c.Transport, msg)
	return err
}

// Flush discards received bytes.
func (c *Central) Flush() error {
	return c.Transport.Flush()
}

// Setup configures the local module.
func (c *Central) Setup(ctx context.Context) error {
	if err := c.reset(ctx); err != nil {
		return err
	}
	for _, cmd := range SetupCommands {
		glog.Infof("> %s", cmd)
		if err := c.Write(cmd); err != nil {
			return err
		}
		if err := c.wait(ctx, c.RetryInterval); err != nil {
			return err
		}
	}
	return nil
}

func (c *Central) reset(ctx context.Context) error {
	if err := c.Write("AT"); err != nil {
		return err
	}
	if err := c.wait(ctx, c.RetryInterval); err != nil {
		return err
	}
	return c.Flush()
}

// Connect performs the two-step handshake: get the module connected
// to the peripheral, then get the "#" confirmation from the device.
func (c *Central) Connect(ctx context.Context) error {
	glog.Info("resetting connection")
	if err := c.reset(ctx); err != nil {
		return err
	}
	connected := c.Peripheral == ""
	// module responses may span reads, they are accumulated until
	// the connection is established or refused.
	var pending string
	for tries := 0; tries < c.MaxTries; tries++ {
		resp := c.drain()
		if !connected {
			pending += resp
			switch {
			case strings.Contains(pending, respConnFail), strings.Contains(pending, respConnErr):
				glog.Warningf("connect %s refused: %q", c.Peripheral, pending)
				pending = ""
			case established(pending):
				connected = true
				glog.Info("connected")
			}
		}
		if strings.Contains(resp, respConfirmed) {
			glog.Info("confirmed")
			return nil
		}
		var req string
		switch {
		case !connected:
			req = "AT+CON" + c.Peripheral
		case c.Peripheral == "":
			req = "AT"
		default:
			req = "AT+NAME?"
		}
		if err := c.Write(req); err != nil {
			return err
		}
		if err := c.wait(ctx, c.RetryInterval); err != nil {
			return err
		}
	}
	return ErrConnectFailed
}

// established looks for OK+CONN which is not OK+CONNA (request
// accepted), OK+CONNF or OK+CONNE.
func established(resp string) bool {
	for i := 0; ; {
		n := strings.Index(resp[i:], respConnected)
		if n < 0 {
			return false
		}
		i += n + len(respConnected)
		if i == len(resp) || strings.IndexByte("AFE", resp[i]) < 0 {
			return true
		}
	}
}

// CheckConnection reconnects if msg reports the connection lost.
func (c *Central) CheckConnection(ctx context.Context, msg string) error {
	tries := 0
	for ; strings.Contains(msg, respLost) && tries < c.ReconnectTries; tries++ {
		glog.Warning("connection lost, reconnecting")
		if err := c.Connect(ctx); err != nil && err != ErrConnectFailed {
			return err
		}
		msg = c.drain()
	}
	if tries >= c.ReconnectTries {
		return ErrLost
	}
	return nil
}

func (c *Central) drain() string {
	var buf bytes.Buffer
	for c.Transport.Available() > 0 {
		b, err := c.Transport.ReadByte()
		if err != nil {
			break
		}
		buf.WriteByte(b)
	}
	if buf.Len() > 0 {
		glog.V(2).Infof("RCV %q", buf.String())
	}
	return buf.String()
}

// ReadLines reads everything received so far.
func (c *Central) ReadLines(ctx context.Context) (string, error) {
	msg := c.drain()
	return msg, c.CheckConnection(ctx, msg)
}

// ReadLine reads until eol, which is not included. When timeout
// expires first, the partial line is returned.
func (c *Central) ReadLine(ctx context.Context, eol byte, timeout time.Duration) (string, error) {
	var buf bytes.Buffer
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if c.Transport.Available() == 0 {
			if err := c.wait(ctx, c.PollInterval); err != nil {
				return buf.String(), err
			}
			continue
		}
		b, err := c.Transport.ReadByte()
		if err != nil {
			continue
		}
		if b == eol {
			break
		}
		buf.WriteByte(b)
	}
	msg := buf.String()
	return msg, c.CheckConnection(ctx, msg)
}

// SetPeriod selects a sampling period by index.
func (c *Central) SetPeriod(index int) error {
	if index < 0 || index >= len(link.DefaultPeriods) {
		return ErrInvalidPeriod
	}
	return c.Write(fmt.Sprintf("CF%d;", index))
}

// SelectPeriod selects a sampling period and discards what was
// received under the previous one.
func (c *Central) SelectPeriod(ctx context.Context, index int) error {
	if err := c.SetPeriod(index); err != nil {
		return err
	}
	if err := c.wait(ctx, c.SettleInterval); err != nil {
		return err
	}
	return c.Flush()
}

// Records reads n telemetry records. The first line is skipped as it's
// usually incomplete. Lines which aren't records are logged and skipped.
func (c *Central) Records(ctx context.Context, n int, fn func(link.Record)) error {
	if _, err := c.ReadLine(ctx, link.Sentinel, c.ReadTimeout); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		line, err := c.ReadLine(ctx, link.Sentinel, c.ReadTimeout)
		if err != nil {
			return err
		}
		rec, err := link.ParseRecord(line)
		if err != nil {
			glog.Warningf("received invalid data: %v", err)
			continue
		}
		fn(rec)
	}
	return nil
}

// Close disconnects and closes the transport.
func (c *Central) Close() error {
	err := c.reset(context.Background())
	if closer, ok := c.Transport.(io.Closer); ok {
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
