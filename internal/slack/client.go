package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/signupguard/signupguard/internal/command"
	"github.com/signupguard/signupguard/internal/logging"
	"github.com/signupguard/signupguard/internal/observability"
	"github.com/signupguard/signupguard/internal/ratelimit"
)

const (
	DefaultHandshakeURL      = "https://slack.com/api/rtm.connect"
	DefaultReconnectInterval = 7 * time.Second
	DefaultHandshakeTimeout  = 10 * time.Second

	writeTimeout = 10 * time.Second

	ReplyRateLimited = "Rate limit exceeded."
)

type Config struct {
	HandshakeURL      string
	Token             string
	BotID             string
	Channel           string
	ReconnectInterval time.Duration
	HandshakeTimeout  time.Duration
}

// Liveness is sent whenever the backend shows the connection is alive.
// Signals coalesce when the receiver lags, so they must not be counted.
type Liveness struct{}

type Client struct {
	cfg      Config
	handler  command.Handler
	liveness chan<- Liveness
	http     *http.Client
	dialer   *websocket.Dialer
	limiter  *ratelimit.Limiter
	metrics  *observability.Metrics
	log      *logging.Logger

	wait func(ctx context.Context, d time.Duration) error
}

func New(cfg Config, handler command.Handler, liveness chan<- Liveness) (*Client, error) {
	if handler == nil {
		return nil, errors.New("command handler is required")
	}
	if cfg.BotID == "" {
		return nil, errors.New("bot id is required")
	}
	if cfg.HandshakeURL == "" {
		cfg.HandshakeURL = DefaultHandshakeURL
	}
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = DefaultReconnectInterval
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}

	return &Client{
		cfg:      cfg,
		handler:  handler,
		liveness: liveness,
		http:     &http.Client{},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		log:  logging.New("slack"),
		wait: sleepContext,
	}, nil
}

func (c *Client) SetLimiter(l *ratelimit.Limiter) {
	c.limiter = l
}

func (c *Client) SetMetrics(m *observability.Metrics) {
	c.metrics = m
}

// Start runs the connection loop in the background and returns immediately.
// The returned channel is closed once ctx is cancelled and the loop has exited.
func (c *Client) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(ctx)
	}()
	return done
}

// Run keeps a connection alive until ctx is cancelled. Every failure is
// followed by the same fixed pause before the next handshake: no backoff, no
// jitter, no retry limit.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := c.session(ctx); err != nil && ctx.Err() == nil {
			c.log.Warn("connection lost: %v", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		c.log.Info("Reconnecting to Slack in %s...", c.cfg.ReconnectInterval)
		if err := c.wait(ctx, c.cfg.ReconnectInterval); err != nil {
			return err
		}
		c.metrics.ObserveReconnect()
	}
}

// session is one handshake, dial and read loop. Reply ids restart at 1 for
// every session.
func (c *Client) session(ctx context.Context) (err error) {
	id := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session %s panicked: %v", id, r)
		}
	}()

	wsURL, err := c.handshake(ctx)
	if err != nil {
		c.metrics.ObserveHandshakeFailure()
		return err
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c.log.Info("connected, session %s", id)

	conn.SetPingHandler(func(data string) error {
		c.metrics.ObserveFrame("ping")
		c.signalLiveness()
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeTimeout))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	s := &session{id: id, conn: conn}
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if msgType != websocket.TextMessage {
			c.metrics.ObserveFrame("other")
			continue
		}
		if err := c.handleFrame(ctx, s, data); err != nil {
			return err
		}
	}
}

type session struct {
	id     string
	conn   *websocket.Conn
	nextID int
}

func (c *Client) handleFrame(ctx context.Context, s *session, data []byte) error {
	msg, ok := decodeMessage(data)
	if !ok {
		c.metrics.ObserveFrame("ignored")
		c.log.Trace("ignoring frame: %.80s", data)
		return nil
	}
	c.metrics.ObserveFrame("message")
	c.signalLiveness()

	prefix := "<@" + c.cfg.BotID + "> "
	if !strings.HasPrefix(*msg.Text, prefix) || *msg.Channel != c.cfg.Channel {
		return nil
	}
	text := (*msg.Text)[len(prefix):]

	var reply string
	if c.limiter.Allow(msg.User, time.Now()) {
		var err error
		reply, err = c.handler.Handle(ctx, text)
		if err != nil {
			c.log.Debug("command %q failed: %v", text, err)
			reply = command.ReplyFor(err)
		}
	} else {
		c.log.Warn("rate limited command from %s", msg.User)
		c.metrics.ObserveCommand(logging.CommandRecord{Command: "rate_limited", Result: logging.ResultRateLimited})
		reply = ReplyRateLimited
	}
	if reply == "" {
		return nil
	}

	s.nextID++
	out := outbound{ID: s.nextID, Type: typeMessage, Channel: *msg.Channel, Text: reply}
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := s.conn.WriteJSON(out); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// signalLiveness never blocks; a signal already pending covers this one.
func (c *Client) signalLiveness() {
	if c.liveness == nil {
		return
	}
	select {
	case c.liveness <- Liveness{}:
	default:
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
