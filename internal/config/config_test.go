package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimal = `
MQTT_BROKER=tcp://localhost:1883
SERIAL_PORT=/dev/ttyUSB0
SERIAL_BAUD=115200
`

func TestLoadMinimalAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Fatalf("broker=%q", cfg.MQTTBroker)
	}
	if cfg.SerialPort != "/dev/ttyUSB0" || cfg.SerialBaud != 115200 {
		t.Fatalf("serial=%q/%d", cfg.SerialPort, cfg.SerialBaud)
	}
	if cfg.TopicIMU != "oem7/imu" || cfg.TopicGPS != "oem7/gps" {
		t.Fatalf("topic defaults not applied: %q %q", cfg.TopicIMU, cfg.TopicGPS)
	}
	if !cfg.PublishIMU || !cfg.PublishInsConfig {
		t.Fatal("enable flags must default to true")
	}
	if cfg.IMURate != 0 {
		t.Fatalf("IMURate=%d want 0 (derive from INSCONFIG)", cfg.IMURate)
	}
	if cfg.WebServerPort != 8080 {
		t.Fatalf("WebServerPort=%d want 8080", cfg.WebServerPort)
	}
}

func TestLoadFullFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
# comment line
MQTT_BROKER=tcp://broker:1883
SERIAL_PORT=/dev/ttyS1
SERIAL_BAUD=230400
TOPIC_IMU=ins/imu
PUBLISH_CORRIMU=false
IMU_RATE=200
WEB_SERVER_PORT=9090
VERBOSE=true
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TopicIMU != "ins/imu" {
		t.Fatalf("TopicIMU=%q", cfg.TopicIMU)
	}
	if cfg.PublishCorrIMU {
		t.Fatal("PUBLISH_CORRIMU=false not honored")
	}
	if cfg.IMURate != 200 || cfg.WebServerPort != 9090 || !cfg.Verbose {
		t.Fatalf("rate=%d port=%d verbose=%v", cfg.IMURate, cfg.WebServerPort, cfg.Verbose)
	}
}

func TestSupportedIMUTable(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal+`
IMU_TYPE_58_NAME=Honeywell HG4930 AN01
IMU_TYPE_58_RATE=100
IMU_TYPE_16_RATE=200
IMU_TYPE_16_NAME=KVH 1750
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.SupportedIMUs[58]; got.Name != "Honeywell HG4930 AN01" || got.Rate != 100 {
		t.Fatalf("entry 58=%+v", got)
	}
	// Order of NAME/RATE keys must not matter.
	if got := cfg.SupportedIMUs[16]; got.Name != "KVH 1750" || got.Rate != 200 {
		t.Fatalf("entry 16=%+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing broker", "SERIAL_PORT=/dev/ttyUSB0\nSERIAL_BAUD=9600\n", "MQTT_BROKER is required"},
		{"missing serial port", "MQTT_BROKER=tcp://localhost:1883\nSERIAL_BAUD=9600\n", "SERIAL_PORT is required"},
		{"missing baud", "MQTT_BROKER=tcp://localhost:1883\nSERIAL_PORT=/dev/ttyUSB0\n", "SERIAL_BAUD is required"},
		{"unknown key", minimal + "BOGUS_KEY=1\n", "unknown config key"},
		{"bad bool", minimal + "PUBLISH_IMU=maybe\n", "invalid PUBLISH_IMU"},
		{"negative rate", minimal + "IMU_RATE=-1\n", "IMU_RATE must be >= 0"},
		{"bad imu table key", minimal + "IMU_TYPE_58_COLOR=red\n", "unknown config key"},
		{"bad imu table id", minimal + "IMU_TYPE_xx_RATE=100\n", "invalid IMU type id"},
		{"malformed line", minimal + "JUST_A_KEY\n", "invalid config line"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err=%v want substring %q", err, tc.wantErr)
			}
		})
	}
}
