package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/ir-receiver/internal/signal"
)

// bufferCapacity bounds the offline message buffer. Session events are
// seconds apart at worst, so a small buffer covers long broker outages.
const bufferCapacity = 64

// RealPublisher publishes to an actual MQTT broker. Messages published while
// the broker is unreachable are buffered and replayed on reconnect.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher connecting to the given broker.
// The connection is established in the background with retry; publishes
// before the first successful connect are buffered, never dropped silently.
func NewRealPublisher(broker, clientID string) *RealPublisher {
	p := &RealPublisher{buf: newRingBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { p.drain() })

	p.client = paho.NewClient(opts)
	p.client.Connect()

	return p
}

// Publish sends a session event to the MQTT broker.
func (p *RealPublisher) Publish(event signal.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.publish(Topic, 0, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	return p.publish(TopicSystem, 1, event.Retained, payload)
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buf.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := p.buf.len()
		p.mu.Unlock()
		log.Printf("mqtt: broker unreachable, buffered message (%d pending)", n)
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// drain replays buffered messages after a reconnect, oldest first.
func (p *RealPublisher) drain() {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: reconnected, replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	}
}
