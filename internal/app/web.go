package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/oem7_ins_bridge/internal/config"
	"github.com/relabs-tech/oem7_ins_bridge/internal/nav"
	"github.com/relabs-tech/oem7_ins_bridge/internal/orientation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// attitudeView is what the dashboard consumes: the composed inertial
// measurement plus its attitude unpacked to degrees.
type attitudeView struct {
	Pose orientation.Pose `json:"pose"`
	Imu  nav.Imu          `json:"imu"`
}

// RunWeb serves the attitude dashboard: a JSON API and a WebSocket
// stream, both fed from the bridge's IMU topic.
func RunWeb() error {
	var (
		mu       sync.RWMutex
		last     attitudeView
		haveData bool
	)

	cfg := config.Get()

	// 1) Connect to MQTT broker
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the IMU topic and update the cache on each message
	token := client.Subscribe(cfg.TopicIMU, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m nav.Imu
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("web: MQTT payload unmarshal error: %v", err)
			return
		}
		mu.Lock()
		last = attitudeView{Pose: m.Orientation.Pose(), Imu: m}
		haveData = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicIMU)

	// 3) JSON API endpoint: latest attitude
	http.HandleFunc("/api/attitude", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveData {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(last); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) WebSocket stream of attitude updates
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()

		for range ticker.C {
			mu.RLock()
			view, ok := last, haveData
			mu.RUnlock()
			if !ok {
				continue
			}

			if err := conn.WriteJSON(view); err != nil {
				// Client gone; normal disconnect path.
				return
			}
		}
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
