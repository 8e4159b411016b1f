// Package mqtt is the gateway's actuation channel: a status client that
// announces liveness on a retained topic (with a broker-registered last
// will for ungraceful disconnects) and an action client that publishes
// unlock commands with at-least-once delivery.
package mqtt

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/gcaccess/door-gateway/internal/metrics"
)

// Broker topics and payloads. Fixed per deployment: the physical door
// controller subscribes to these exact strings.
const (
	StatusTopic = "gca/door-gateway/status"
	UnlockTopic = "gca/door-gateway/unlock"

	OnlinePayload  = "online"
	OfflinePayload = "offline"

	// UnlockPayload is a fixed sentinel; the controller reacts to the
	// message, not its content. Published non-retained: a retained
	// unlock would re-trigger the door for every late subscriber.
	UnlockPayload = "true"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	keepAlive         = 30 * time.Second
	disconnectQuiesce = 1000 // milliseconds

	// atLeastOnce is the QoS used for every publish in this package.
	atLeastOnce = 1

	// maxInflight bounds concurrent unlock publishes. At capacity new
	// publishes are rejected, not queued; backpressure surfaces to the
	// HTTP caller instead of silently piling up.
	maxInflight = 10
)

var (
	ErrConnectionFailed = errors.New("mqtt: connection failed")
	ErrNotConnected     = errors.New("mqtt: client not connected")
	ErrPublishFailed    = errors.New("mqtt: publish failed")
	ErrTooManyInflight  = errors.New("mqtt: too many in-flight publishes")
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	ClientID string
}

func buildOptions(cfg Config, clientID string) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port))
	opts.SetClientID(clientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetCleanSession(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)

	// Reconnects are the client library's responsibility. Its network
	// goroutines run for the life of the process, independently of
	// request handling, so keep-alives keep flowing even under load.
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	return opts
}

func connect(opts *pahomqtt.ClientOptions) (pahomqtt.Client, error) {
	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return client, nil
}

// StatusClient owns the liveness announcement. Its connection carries a
// last will, so the broker itself publishes a retained "offline" if the
// connection drops without a clean disconnect — no application code runs
// on that path.
type StatusClient struct {
	client pahomqtt.Client
	logger *slog.Logger
}

// ConnectStatus connects the status client and publishes a retained
// "online". The online publish is repeated on every reconnect, replacing
// any "offline" the broker asserted while we were gone.
func ConnectStatus(cfg Config, logger *slog.Logger) (*StatusClient, error) {
	s := &StatusClient{logger: logger.With("component", "mqtt_status")}

	opts := buildOptions(cfg, cfg.ClientID+"-status")
	opts.SetWill(StatusTopic, OfflinePayload, atLeastOnce, true)
	opts.SetOnConnectHandler(func(c pahomqtt.Client) {
		metrics.BrokerConnected.WithLabelValues("status").Set(1)
		t := c.Publish(StatusTopic, atLeastOnce, true, OnlinePayload)
		if t.WaitTimeout(publishTimeout) && t.Error() == nil {
			s.logger.Info("announced online status", "topic", StatusTopic)
			return
		}
		s.logger.Error("online status publish failed", "topic", StatusTopic, "error", t.Error())
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		metrics.BrokerConnected.WithLabelValues("status").Set(0)
		s.logger.Warn("broker connection lost", "error", err)
	})

	client, err := connect(opts)
	if err != nil {
		return nil, err
	}
	s.client = client
	return s, nil
}

// Close publishes a retained "offline" and disconnects cleanly, so a
// graceful shutdown looks the same to subscribers as a crash, minus the
// last-will detour.
func (s *StatusClient) Close() {
	if s.client == nil {
		return
	}
	if s.client.IsConnected() {
		t := s.client.Publish(StatusTopic, atLeastOnce, true, OfflinePayload)
		t.WaitTimeout(publishTimeout)
	}
	s.client.Disconnect(disconnectQuiesce)
}

func (s *StatusClient) IsConnected() bool {
	return s.client != nil && s.client.IsConnected()
}

// ActionClient publishes unlock commands. Safe for concurrent use; the
// underlying client serializes wire writes.
type ActionClient struct {
	client   pahomqtt.Client
	logger   *slog.Logger
	inflight chan struct{}
}

func ConnectAction(cfg Config, logger *slog.Logger) (*ActionClient, error) {
	a := &ActionClient{
		logger:   logger.With("component", "mqtt_action"),
		inflight: make(chan struct{}, maxInflight),
	}

	opts := buildOptions(cfg, cfg.ClientID+"-action")
	opts.SetOnConnectHandler(func(pahomqtt.Client) {
		metrics.BrokerConnected.WithLabelValues("action").Set(1)
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		metrics.BrokerConnected.WithLabelValues("action").Set(0)
		a.logger.Warn("broker connection lost", "error", err)
	})

	client, err := connect(opts)
	if err != nil {
		return nil, err
	}
	a.client = client
	return a, nil
}

// PublishUnlock sends the unlock command with at-least-once delivery.
// Once begun it runs to completion regardless of the originating
// request; a failed or rejected publish is the caller's to report.
func (a *ActionClient) PublishUnlock() error {
	select {
	case a.inflight <- struct{}{}:
		defer func() { <-a.inflight }()
	default:
		return ErrTooManyInflight
	}

	if !a.client.IsConnected() {
		return ErrNotConnected
	}

	token := a.client.Publish(UnlockTopic, atLeastOnce, false, UnlockPayload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	a.logger.Info("unlock published", "topic", UnlockTopic)
	return nil
}

func (a *ActionClient) Close() {
	if a.client != nil {
		a.client.Disconnect(disconnectQuiesce)
	}
}

func (a *ActionClient) IsConnected() bool {
	return a.client != nil && a.client.IsConnected()
}
