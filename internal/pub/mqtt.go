package pub

import (
	"encoding/json"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/oem7_ins_bridge/internal/config"
)

// MQTT publishes bridge outputs as JSON payloads, QoS 0 retained, one
// topic per output. Topics and enable flags come from the global
// configuration; flags are consulted at emission time.
type MQTT struct {
	client mqtt.Client
}

func NewMQTT(client mqtt.Client) *MQTT {
	return &MQTT{client: client}
}

func (p *MQTT) Enabled(out Output) bool {
	cfg := config.Get()
	switch out {
	case IMU:
		return cfg.PublishIMU
	case CorrIMU:
		return cfg.PublishCorrIMU
	case InsStdev:
		return cfg.PublishInsStdev
	case InsPVAX:
		return cfg.PublishInsPVAX
	case InsConfig:
		return cfg.PublishInsConfig
	case GPS:
		return cfg.PublishGPS
	}
	return false
}

// Topic returns the MQTT topic an output is published on.
func (p *MQTT) Topic(out Output) string {
	cfg := config.Get()
	switch out {
	case IMU:
		return cfg.TopicIMU
	case CorrIMU:
		return cfg.TopicCorrIMU
	case InsStdev:
		return cfg.TopicInsStdev
	case InsPVAX:
		return cfg.TopicInsPVAX
	case InsConfig:
		return cfg.TopicInsConfig
	case GPS:
		return cfg.TopicGPS
	}
	return ""
}

func (p *MQTT) Publish(out Output, v any) {
	if !p.Enabled(out) {
		return
	}

	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("pub: json marshal error (%s): %v", out, err)
		return
	}

	if token := p.client.Publish(p.Topic(out), 0, true, payload); token.Wait() && token.Error() != nil {
		log.Printf("pub: MQTT publish error (%s): %v", out, token.Error())
	}
}
