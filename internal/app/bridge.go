// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	nmea "github.com/adrianmo/go-nmea"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/oem7_ins_bridge/internal/config"
	"github.com/relabs-tech/oem7_ins_bridge/internal/gps"
	"github.com/relabs-tech/oem7_ins_bridge/internal/ins"
	"github.com/relabs-tech/oem7_ins_bridge/internal/oem7"
	"github.com/relabs-tech/oem7_ins_bridge/internal/pub"
)

// RunBridge opens the receiver serial port and republishes its decoded
// INS logs to MQTT until the port errors out.
func RunBridge() error {
	cfg := config.Get()

	// ---- 1) Connect to MQTT broker ----
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDBridge)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("bridge: connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Open receiver serial port ----
	serialOpts := serial.OpenOptions{
		PortName:              cfg.SerialPort,
		BaudRate:              uint(cfg.SerialBaud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("open receiver port %s: %w", cfg.SerialPort, err)
	}
	defer port.Close()
	log.Printf("bridge: receiver port opened on %s at %d baud", cfg.SerialPort, cfg.SerialBaud)

	return runStream(port, client)
}

// RunReplay drives the same pipeline from a recorded raw capture file.
func RunReplay(path string) error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDBridge)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("replay: connected to MQTT broker at %s", cfg.MQTTBroker)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open capture file: %w", err)
	}
	defer file.Close()
	log.Printf("replay: reading %s", path)

	return runStream(file, client)
}

func connectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect: %w", token.Error())
	}
	return client, nil
}

// runStream decodes the raw receiver stream and feeds the translator
// and the NMEA passthrough until the stream ends.
func runStream(r io.Reader, client mqtt.Client) error {
	cfg := config.Get()
	publisher := pub.NewMQTT(client)

	if cfg.IMURate > 0 {
		log.Printf("bridge: using configured IMU rate override %d", cfg.IMURate)
	}
	translator := ins.New(ins.Params{
		RateOverride:  cfg.IMURate,
		SupportedIMUs: cfg.SupportedIMUs,
		Trace:         cfg.Verbose,
	}, publisher)

	dec := oem7.NewDecoder(r)
	for {
		msg, sentence, err := dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("receiver stream: %w", err)
		}

		if sentence != "" {
			handleNMEA(sentence, publisher)
			continue
		}
		translator.Handle(msg)
	}
}

// handleNMEA publishes GPS fixes from the ASCII sentences the receiver
// interleaves with its binary logs. Only RMC is used.
func handleNMEA(line string, publisher pub.Publisher) {
	sentence, err := nmea.Parse(line)
	if err != nil {
		// Shared ports carry plenty of non-NMEA ASCII; not an error.
		return
	}

	if m, ok := sentence.(nmea.RMC); ok {
		publisher.Publish(pub.GPS, gps.FromRMC(m))
	}
	// ignore other sentence types for now (GGA, GSA, etc.)
}
