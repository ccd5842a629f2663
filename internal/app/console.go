package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/oem7_ins_bridge/internal/config"
	"github.com/relabs-tech/oem7_ins_bridge/internal/gps"
	"github.com/relabs-tech/oem7_ins_bridge/internal/nav"
	"github.com/relabs-tech/oem7_ins_bridge/internal/oem7"
)

// RunConsole subscribes to every bridge topic and pretty-prints the
// traffic until interrupted.
func RunConsole() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	// Subscribe to the composed inertial measurement
	imuToken := client.Subscribe(cfg.TopicIMU, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m nav.Imu
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("console: imu unmarshal error: %v", err)
			return
		}

		pose := m.Orientation.Pose()
		fmt.Printf(
			"[IMU ]  ROLL=%7.2f PITCH=%7.2f YAW=%7.2f  w=(%7.3f %7.3f %7.3f)  a=(%7.3f %7.3f %7.3f)\n",
			pose.Roll, pose.Pitch, pose.Yaw,
			m.AngularVelocity.X, m.AngularVelocity.Y, m.AngularVelocity.Z,
			m.LinearAcceleration.X, m.LinearAcceleration.Y, m.LinearAcceleration.Z,
		)
	})
	imuToken.Wait()
	if imuToken.Error() != nil {
		return imuToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicIMU)

	// Subscribe to the corrected-IMU passthrough
	corrToken := client.Subscribe(cfg.TopicCorrIMU, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m oem7.CorrectedIMU
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("console: corrimu unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[CORR]  pr=%10.6f rr=%10.6f yr=%10.6f  lat=%10.6f lon=%10.6f vert=%10.6f\n",
			m.PitchRate, m.RollRate, m.YawRate,
			m.LateralAcc, m.LongitudinalAcc, m.VerticalAcc,
		)
	})
	corrToken.Wait()
	if corrToken.Error() != nil {
		return corrToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicCorrIMU)

	// Subscribe to the standard-deviation passthrough
	stdevToken := client.Subscribe(cfg.TopicInsStdev, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m oem7.INSSTDEV
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("console: insstdev unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[STDV]  roll=%6.3f pitch=%6.3f azimuth=%6.3f\n",
			m.RollStdev, m.PitchStdev, m.AzimuthStdev,
		)
	})
	stdevToken.Wait()
	if stdevToken.Error() != nil {
		return stdevToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicInsStdev)

	// Subscribe to the extended solution passthrough
	pvaxToken := client.Subscribe(cfg.TopicInsPVAX, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m oem7.INSPVAX
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("console: inspvax unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[PVAX]  lat=%.8f lon=%.8f h=%.2f  roll=%7.2f pitch=%7.2f azimuth=%7.2f\n",
			m.Latitude, m.Longitude, m.Height,
			m.Roll, m.Pitch, m.Azimuth,
		)
	})
	pvaxToken.Wait()
	if pvaxToken.Error() != nil {
		return pvaxToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicInsPVAX)

	// Subscribe to the configuration passthrough
	confToken := client.Subscribe(cfg.TopicInsConfig, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m oem7.INSCONFIG
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("console: insconfig unmarshal error: %v", err)
			return
		}

		fmt.Printf("[CONF]  imu_type=%d mapping=%d alignment=%d\n",
			m.ImuType, m.Mapping, m.InitialAlignmentMode)
	})
	confToken.Wait()
	if confToken.Error() != nil {
		return confToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicInsConfig)

	// Subscribe to GPS
	gpsToken := client.Subscribe(cfg.TopicGPS, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f gps.Fix
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("console: gps unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[GPS ]  time=%s date=%s lat=%.6f lon=%.6f speed=%.1fkn course=%.1f° validity=%s\n",
			f.Time, f.Date, f.Latitude, f.Longitude, f.SpeedKnots, f.CourseDeg, f.Validity,
		)
	})
	gpsToken.Wait()
	if gpsToken.Error() != nil {
		return gpsToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGPS)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
