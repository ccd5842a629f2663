// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/oem7_ins_bridge/internal/app"
	"github.com/relabs-tech/oem7_ins_bridge/internal/config"
)

func main() {
	configPath := flag.String("config", "./ins_bridge_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting oem7-ins-bridge console (MQTT → stdout)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
