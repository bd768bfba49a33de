// Package events publishes record lifecycle notifications for downstream
// consumers (notification mailers, dashboards).
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	TypeCreated = "created"
	TypeUpdated = "updated"
	TypeDeleted = "deleted"
	TypeEnded   = "ended"
	TypeOverdue = "overdue"
)

// Event describes a change to one record.
type Event struct {
	Type           string    `json:"type"`
	Resource       string    `json:"resource"`
	ID             string    `json:"id"`
	SequenceNumber string    `json:"sequence_number,omitempty"`
	Actor          string    `json:"actor,omitempty"`
	At             time.Time `json:"at"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close()
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close()                               {}

// Config holds the MQTT connection settings.
type Config struct {
	BrokerURL      string
	ClientID       string
	TopicPrefix    string
	ConnectTimeout time.Duration
}

// MQTTPublisher publishes events as JSON on
// <prefix>/<resource>/<type> with QoS 1.
type MQTTPublisher struct {
	client  mqtt.Client
	prefix  string
	timeout time.Duration
}

// NewMQTTPublisher connects to the broker.
func NewMQTTPublisher(cfg Config) (*MQTTPublisher, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out after %s", cfg.BrokerURL, timeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.BrokerURL, err)
	}
	return newMQTTPublisher(client, cfg.TopicPrefix, timeout), nil
}

func newMQTTPublisher(client mqtt.Client, prefix string, timeout time.Duration) *MQTTPublisher {
	if prefix == "" {
		prefix = "fleetcrm"
	}
	return &MQTTPublisher{client: client, prefix: prefix, timeout: timeout}
}

// Topic returns the topic an event is published on.
func Topic(prefix string, ev Event) string {
	return fmt.Sprintf("%s/%s/%s", prefix, ev.Resource, ev.Type)
}

// Publish sends ev and waits for the broker acknowledgement, the publisher
// timeout or ctx, whichever comes first.
func (p *MQTTPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	token := p.client.Publish(Topic(p.prefix, ev), 1, false, payload)
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return errors.New("mqtt publish: timed out")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
