package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// IMUInfo describes one entry of the supported-IMU table: the display
// name and sample rate (Hz) for an INSCONFIG imu type code.
type IMUInfo struct {
	Name string
	Rate int
}

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDBridge  string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string

	// Topics, one per bridge output
	TopicIMU       string
	TopicCorrIMU   string
	TopicInsStdev  string
	TopicInsPVAX   string
	TopicInsConfig string
	TopicGPS       string

	// Per-output enable flags
	PublishIMU       bool
	PublishCorrIMU   bool
	PublishInsStdev  bool
	PublishInsPVAX   bool
	PublishInsConfig bool
	PublishGPS       bool

	// Receiver serial link
	SerialPort string
	SerialBaud int

	// IMURate > 0 overrides the rate normally derived from the first
	// INSCONFIG log.
	IMURate int

	// SupportedIMUs maps INSCONFIG imu type codes to name and rate,
	// populated from IMU_TYPE_<id>_NAME / IMU_TYPE_<id>_RATE keys.
	SupportedIMUs map[uint32]IMUInfo

	// Web Server
	WebServerPort int

	// Verbose enables per-message trace logging.
	Verbose bool
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//     This enforces encapsulation and prevents external code from modifying config without proper locking.
//     Has package-level scope (visible to all functions in this package, persists for program lifetime).
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock (Lock) for initialization,
//     read lock (RLock) for Get() allows multiple concurrent readers without blocking each other.
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// defaults returns a Config with every optional field pre-filled, so a
// minimal file only needs the broker and serial settings.
func defaults() *Config {
	return &Config{
		MQTTClientIDBridge:  "oem7-ins-bridge",
		MQTTClientIDConsole: "oem7-console-subscriber",
		MQTTClientIDWeb:     "oem7-web-subscriber",

		TopicIMU:       "oem7/imu",
		TopicCorrIMU:   "oem7/corrimu",
		TopicInsStdev:  "oem7/insstdev",
		TopicInsPVAX:   "oem7/inspvax",
		TopicInsConfig: "oem7/insconfig",
		TopicGPS:       "oem7/gps",

		PublishIMU:       true,
		PublishCorrIMU:   true,
		PublishInsStdev:  true,
		PublishInsPVAX:   true,
		PublishInsConfig: true,
		PublishGPS:       true,

		SupportedIMUs: make(map[uint32]IMUInfo),

		WebServerPort: 8080,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_BRIDGE":
		c.MQTTClientIDBridge = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_IMU":
		c.TopicIMU = value
	case "TOPIC_CORRIMU":
		c.TopicCorrIMU = value
	case "TOPIC_INSSTDEV":
		c.TopicInsStdev = value
	case "TOPIC_INSPVAX":
		c.TopicInsPVAX = value
	case "TOPIC_INSCONFIG":
		c.TopicInsConfig = value
	case "TOPIC_GPS":
		c.TopicGPS = value

	// Enable flags
	case "PUBLISH_IMU":
		return c.setBool(&c.PublishIMU, key, value)
	case "PUBLISH_CORRIMU":
		return c.setBool(&c.PublishCorrIMU, key, value)
	case "PUBLISH_INSSTDEV":
		return c.setBool(&c.PublishInsStdev, key, value)
	case "PUBLISH_INSPVAX":
		return c.setBool(&c.PublishInsPVAX, key, value)
	case "PUBLISH_INSCONFIG":
		return c.setBool(&c.PublishInsConfig, key, value)
	case "PUBLISH_GPS":
		return c.setBool(&c.PublishGPS, key, value)

	// Receiver serial link
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD":
		baud, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD %q: %w", value, err)
		}
		c.SerialBaud = baud

	// IMU rate override
	case "IMU_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_RATE %q: %w", value, err)
		}
		if rate < 0 {
			return fmt.Errorf("IMU_RATE must be >= 0, got %d", rate)
		}
		c.IMURate = rate

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	case "VERBOSE":
		return c.setBool(&c.Verbose, key, value)

	default:
		// Supported-IMU table entries carry the type id in the key.
		if strings.HasPrefix(key, "IMU_TYPE_") {
			return c.setIMUType(key, value)
		}
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// setBool parses a boolean config value.
func (c *Config) setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = b
	return nil
}

// setIMUType handles IMU_TYPE_<id>_NAME and IMU_TYPE_<id>_RATE keys.
func (c *Config) setIMUType(key, value string) error {
	rest := strings.TrimPrefix(key, "IMU_TYPE_")
	sep := strings.IndexByte(rest, '_')
	if sep < 0 {
		return fmt.Errorf("unknown config key: %q", key)
	}

	id, err := strconv.ParseUint(rest[:sep], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid IMU type id in %q: %w", key, err)
	}

	info := c.SupportedIMUs[uint32(id)]
	switch rest[sep+1:] {
	case "NAME":
		info.Name = value
	case "RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		if rate < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", key, rate)
		}
		info.Rate = rate
	default:
		return fmt.Errorf("unknown config key: %q", key)
	}
	c.SupportedIMUs[uint32(id)] = info

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.SerialPort == "" {
		return fmt.Errorf("SERIAL_PORT is required")
	}
	if c.SerialBaud == 0 {
		return fmt.Errorf("SERIAL_BAUD is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
// Acquires write lock (configMu.Lock) during initialization to prevent concurrent access.
// This is the only function that can set globalConfig.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
// Uses read lock (configMu.RLock) to allow multiple concurrent readers without blocking.
// This is thread-safe and efficient for concurrent access across goroutines.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
