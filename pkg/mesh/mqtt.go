/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mesh

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/mfreeman451/meshbridge/pkg/models"
)

const (
	DefaultMQTTTopic      = "msh/+/2/json/#"
	defaultConnectTimeout = 30 * time.Second
	disconnectQuiesceMs   = 250
)

// MQTTConfig configures the JSON uplink subscription.
type MQTTConfig struct {
	Broker         string
	Topic          string
	ClientID       string
	Username       string
	Password       string
	MyNodeID       string
	ConnectTimeout time.Duration
}

// MQTTInterface builds its node database from the Meshtastic JSON uplink that
// gateway nodes publish to an MQTT broker.
type MQTTInterface struct {
	client     mqtt.Client
	db         *NodeDB
	topic      string
	myNodeID   string
	subscribed atomic.Bool
}

var _ Interface = (*MQTTInterface)(nil)

// NewMQTTInterface connects to the broker and subscribes to the uplink topic.
func NewMQTTInterface(cfg MQTTConfig) (*MQTTInterface, error) {
	if cfg.Broker == "" {
		return nil, ErrMQTTBrokerRequired
	}

	if cfg.Topic == "" {
		cfg.Topic = DefaultMQTTTopic
	}

	if cfg.ClientID == "" {
		cfg.ClientID = "meshbridge-" + uuid.NewString()[:8]
	}

	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	m := &MQTTInterface{
		db:       NewNodeDB(),
		topic:    cfg.Topic,
		myNodeID: cfg.MyNodeID,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetOnConnectHandler(m.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("Lost connection to MQTT broker %s: %v", cfg.Broker, err)
		})

	m.client = mqtt.NewClient(opts)

	log.Printf("Connecting to MQTT broker %s as %s", cfg.Broker, cfg.ClientID)

	if err := waitToken(m.client.Connect(), cfg.ConnectTimeout); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMQTTConnect, err)
	}

	if err := waitToken(m.client.Subscribe(m.topic, 0, m.handleMessage), cfg.ConnectTimeout); err != nil {
		m.client.Disconnect(disconnectQuiesceMs)

		return nil, fmt.Errorf("%w '%s': %w", ErrMQTTSubscribe, m.topic, err)
	}

	m.subscribed.Store(true)

	log.Printf("Subscribed to %s", m.topic)

	return m, nil
}

// onConnect restores the subscription after an automatic reconnect.
func (m *MQTTInterface) onConnect(c mqtt.Client) {
	if !m.subscribed.Load() {
		return
	}

	if err := waitToken(c.Subscribe(m.topic, 0, m.handleMessage), defaultConnectTimeout); err != nil {
		log.Printf("Failed to resubscribe to %s: %v", m.topic, err)
	}
}

func (m *MQTTInterface) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	env, err := DecodeEnvelope(msg.Payload())
	if err != nil {
		log.Printf("Ignoring message on %s: %v", msg.Topic(), err)
		return
	}

	m.db.Apply(env)
}

// NodeSnapshot implements Interface.
func (m *MQTTInterface) NodeSnapshot(_ context.Context) (Snapshot, bool, error) {
	snap, ok := m.db.Snapshot()

	return snap, ok, nil
}

// MyNode implements Interface.
func (m *MQTTInterface) MyNode(_ context.Context) (models.NodeRecord, bool, error) {
	if m.myNodeID == "" {
		return nil, false, ErrMyNodeIDRequired
	}

	node, ok := m.db.Get(m.myNodeID)

	return node, ok, nil
}

// Close implements Interface.
func (m *MQTTInterface) Close() error {
	m.subscribed.Store(false)
	m.client.Disconnect(disconnectQuiesceMs)

	return nil
}

func waitToken(t mqtt.Token, timeout time.Duration) error {
	if !t.WaitTimeout(timeout) {
		return ErrMQTTTimeout
	}

	return t.Error()
}
