package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const mqttTimeout = 2 * time.Second

// MQTTPublisher publishes snapshots as retained JSON messages.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher connects to broker, e.g. "tcp://localhost:1883".
func NewMQTTPublisher(broker, clientID, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("telemetry: MQTT connect to %s: %w", broker, token.Error())
	}
	return &MQTTPublisher{client: client, topic: topic}, nil
}

func (p *MQTTPublisher) Publish(s Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 0, true, payload)
	if !token.WaitTimeout(mqttTimeout) {
		return fmt.Errorf("telemetry: MQTT publish to %s timed out", p.topic)
	}
	return token.Error()
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
