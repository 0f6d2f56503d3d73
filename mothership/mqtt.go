package mothership

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// ErrNotConnected is returned when the MQTT client is used before Connect
// or after Close.
var ErrNotConnected = errors.New("mothership: not connected")

// MQTTConfig holds the broker settings.
type MQTTConfig struct {
	Broker   string
	Port     int
	Group    string
	Username string
	Password string
}

// MQTTTransport is a Transport over the mothership's MQTT broker.
//
// Thread Safety:
//   - paho invokes the message handler on its own goroutines.
//   - incoming messages go into a buffered channel with non-blocking sends.
//   - subscriptions are replayed after an automatic reconnect.
type MQTTTransport struct {
	cfg    MQTTConfig
	client mqtt.Client
	inbox  chan Message
	logger *slog.Logger

	mu     sync.Mutex
	topics []string
}

// MQTTOption configures an MQTTTransport.
type MQTTOption func(*MQTTTransport)

// WithMQTTLogger sets the transport logger.
func WithMQTTLogger(l *slog.Logger) MQTTOption {
	return func(t *MQTTTransport) {
		if l != nil {
			t.logger = l
		}
	}
}

// qos matches the server, which publishes with exactly-once delivery.
const qos = 2

const inboxSize = 256

// NewMQTTTransport prepares a transport; Connect opens the connection.
func NewMQTTTransport(cfg MQTTConfig, opts ...MQTTOption) *MQTTTransport {
	t := &MQTTTransport{
		cfg:    cfg,
		inbox:  make(chan Message, inboxSize),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// ClientID returns a fresh client id of the form "<group>-<uuid>".
func ClientID(group string) string {
	return group + "-" + uuid.NewString()
}

// BrokerURL selects TLS for the well-known secure port.
func BrokerURL(host string, port int) string {
	if port == 8883 {
		return fmt.Sprintf("ssl://%s:%d", host, port)
	}

	return fmt.Sprintf("tcp://%s:%d", host, port)
}

// Connect establishes the connection and waits for the broker to accept it.
func (t *MQTTTransport) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	brokerURL := BrokerURL(t.cfg.Broker, t.cfg.Port)
	opts.AddBroker(brokerURL)
	opts.SetClientID(ClientID(t.cfg.Group))
	opts.SetUsername(t.cfg.Username)
	opts.SetPassword(t.cfg.Password)
	opts.SetProtocolVersion(4) // MQTT 3.1.1
	opts.SetCleanSession(true)

	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(1 * time.Minute)

	opts.SetOnConnectHandler(t.onConnect)
	opts.SetConnectionLostHandler(t.onConnectionLost)

	t.client = mqtt.NewClient(opts)
	t.logger.Info("mothership: connecting", "broker", brokerURL)

	if err := wait(ctx, t.client.Connect()); err != nil {
		return fmt.Errorf("mothership: connect %s: %w", brokerURL, err)
	}
	t.logger.Info("mothership: connected", "broker", brokerURL)

	return nil
}

// Publish sends payload to topic.
func (t *MQTTTransport) Publish(ctx context.Context, topic string, payload []byte) error {
	if t.client == nil {
		return ErrNotConnected
	}
	if err := wait(ctx, t.client.Publish(topic, qos, false, payload)); err != nil {
		return fmt.Errorf("mothership: publish %s: %w", topic, err)
	}
	t.logger.Debug("mothership: published", "topic", topic, "payload", string(payload))

	return nil
}

// Subscribe adds topic to the subscriptions kept across reconnects.
func (t *MQTTTransport) Subscribe(ctx context.Context, topic string) error {
	if t.client == nil {
		return ErrNotConnected
	}
	if err := wait(ctx, t.client.Subscribe(topic, qos, t.handle)); err != nil {
		return fmt.Errorf("mothership: subscribe %s: %w", topic, err)
	}

	t.mu.Lock()
	t.topics = append(t.topics, topic)
	t.mu.Unlock()
	t.logger.Info("mothership: subscribed", "topic", topic)

	return nil
}

// Messages returns the receive channel.
func (t *MQTTTransport) Messages() <-chan Message { return t.inbox }

// Close unsubscribes and disconnects, waiting up to 250ms.
func (t *MQTTTransport) Close() error {
	if t.client == nil {
		return nil
	}
	if t.client.IsConnected() {
		t.mu.Lock()
		topics := append([]string(nil), t.topics...)
		t.mu.Unlock()
		if len(topics) > 0 {
			t.client.Unsubscribe(topics...).WaitTimeout(250 * time.Millisecond)
		}
		t.client.Disconnect(250)
	}
	t.logger.Info("mothership: disconnected")

	return nil
}

func (t *MQTTTransport) onConnect(c mqtt.Client) {
	t.mu.Lock()
	topics := append([]string(nil), t.topics...)
	t.mu.Unlock()

	for _, topic := range topics {
		token := c.Subscribe(topic, qos, t.handle)
		if token.Wait() && token.Error() != nil {
			t.logger.Error("mothership: resubscribe failed", "topic", topic, "err", token.Error())
		}
	}
}

func (t *MQTTTransport) onConnectionLost(_ mqtt.Client, err error) {
	t.logger.Warn("mothership: connection lost, reconnecting", "err", err)
}

func (t *MQTTTransport) handle(_ mqtt.Client, msg mqtt.Message) {
	m := Message{Topic: msg.Topic(), Payload: append([]byte(nil), msg.Payload()...)}
	select {
	case t.inbox <- m:
	default:
		t.logger.Error("mothership: inbox full, dropping message", "topic", m.Topic)
	}
}

// wait blocks until the token completes or ctx ends.
func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
