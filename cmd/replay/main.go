package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/oem7_ins_bridge/internal/app"
	"github.com/relabs-tech/oem7_ins_bridge/internal/config"
)

func main() {
	configPath := flag.String("config", "./ins_bridge_config.txt", "path to configuration file")
	capture := flag.String("capture", "", "path to a raw receiver capture file")
	flag.Parse()

	if *capture == "" {
		log.Fatal("replay: -capture is required")
	}

	log.Println("starting oem7-ins-bridge replay (capture file → MQTT)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunReplay(*capture); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
