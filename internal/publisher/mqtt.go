// Package publisher mirrors live overview snapshots to an MQTT broker for
// home-automation dashboards.
package publisher

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/config"
	"github.com/koraenergy/kora-control/internal/pages"
)

const (
	defaultPrefix  = "kora"
	publishTimeout = 5 * time.Second
)

// client is the part of mqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher sends retained snapshot messages under a topic prefix.
type Publisher struct {
	client      client
	topicPrefix string
	log         *zap.Logger
}

// New connects to the configured broker. The broker marks the publisher
// offline on <prefix>/status if the connection drops.
func New(cfg config.MQTTConfig, log *zap.Logger) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}
	if log == nil {
		log = zap.NewNop()
	}
	prefix := topicPrefix(cfg.TopicPrefix)

	broker := cfg.Broker
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID("kora-control-" + fmt.Sprint(time.Now().UnixNano()))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetWill(prefix+"/status", "offline", 1, true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	p := newPublisher(c, prefix, log)
	if err := p.publish(prefix+"/status", []byte("online")); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(c client, prefix string, log *zap.Logger) *Publisher {
	return &Publisher{client: c, topicPrefix: topicPrefix(prefix), log: log}
}

func topicPrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return defaultPrefix
	}
	return p
}

// SnapshotPayload is the JSON body of <prefix>/snapshot.
type SnapshotPayload struct {
	CurrentUsageKWh float64 `json:"current_usage_kwh"`
	PendingBillETB  float64 `json:"pending_bill_etb"`
	ActiveTickets   int     `json:"active_tickets"`
	UsageTrendPct   float64 `json:"usage_trend_pct"`
	TotalUsageKWh   float64 `json:"total_usage_kwh"`
	TotalCostETB    float64 `json:"total_cost_etb"`
	UsageRange      string  `json:"usage_range"`
	CostRange       string  `json:"cost_range"`
	FetchedAt       string  `json:"fetched_at"`
}

func payloadFor(s pages.Snapshot) SnapshotPayload {
	return SnapshotPayload{
		CurrentUsageKWh: s.Stats.CurrentUsageKWh,
		PendingBillETB:  s.Stats.PendingBillETB,
		ActiveTickets:   s.Stats.ActiveTickets,
		UsageTrendPct:   s.UsageTrend(),
		TotalUsageKWh:   s.TotalUsage(),
		TotalCostETB:    s.TotalCost(),
		UsageRange:      string(s.Usage.TimeRange),
		CostRange:       string(s.Cost.TimeRange),
		FetchedAt:       s.FetchedAt.UTC().Format(time.RFC3339),
	}
}

// PublishSnapshot sends s as a retained message on <prefix>/snapshot.
func (p *Publisher) PublishSnapshot(s pages.Snapshot) error {
	body, err := json.Marshal(payloadFor(s))
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	return p.publish(p.topicPrefix+"/snapshot", body)
}

// Observe adapts PublishSnapshot to a snapshot observer. Failures are
// logged, never returned, so a broker outage cannot affect the dashboard.
func (p *Publisher) Observe(s pages.Snapshot) {
	if err := p.PublishSnapshot(s); err != nil {
		p.log.Warn("mqtt publish failed", zap.Error(err))
	}
}

func (p *Publisher) publish(topic string, body []byte) error {
	token := p.client.Publish(topic, 1, true, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
