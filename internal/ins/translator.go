// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package ins

import (
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/oem7_ins_bridge/internal/config"
	"github.com/relabs-tech/oem7_ins_bridge/internal/nav"
	"github.com/relabs-tech/oem7_ins_bridge/internal/oem7"
	"github.com/relabs-tech/oem7_ins_bridge/internal/orientation"
	"github.com/relabs-tech/oem7_ins_bridge/internal/pub"
)

// dataNotAvailable marks a covariance diagonal whose source data is
// missing. Zero is a valid measurement, so absent fields get a negative
// sentinel instead of being left zeroed. The same value is shared by
// the angular and linear diagonals; downstream consumers depend on it.
const dataNotAvailable = -1.0

// nominalVariance is the fixed variance reported on every populated
// motion covariance diagonal entry.
const nominalVariance = 1e-3

// pvaWarnInterval throttles the "no INSPVA yet" warning.
const pvaWarnInterval = 10 * time.Second

// rateSource records where the IMU rate came from. A failed INSCONFIG
// lookup still moves to rateDerived so the attempt is never repeated.
type rateSource int

const (
	rateUnset rateSource = iota
	rateOverridden
	rateDerived
)

// Params configures a Translator.
type Params struct {
	// RateOverride > 0 pins the IMU rate immediately and permanently
	// suppresses derivation from INSCONFIG.
	RateOverride int

	// SupportedIMUs maps INSCONFIG imu type codes to name and rate.
	SupportedIMUs map[uint32]config.IMUInfo

	// Trace logs every inbound log id.
	Trace bool
}

// Translator republishes decoded OEM7 INS logs as standardized
// messages: passthroughs for INSSTDEV, corrected IMU, INSPVAX and
// INSCONFIG, plus a composed inertial measurement built from the most
// recent INSPVA, corrected-IMU and INSSTDEV logs.
//
// Handle is not safe for concurrent use; callers deliver one log at a
// time.
type Translator struct {
	pub   pub.Publisher
	imus  map[uint32]config.IMUInfo
	trace bool

	// Latest-log caches, overwritten on every arrival.
	inspva   *oem7.INSPVA
	corrimu  *oem7.CorrectedIMU
	insstdev *oem7.INSSTDEV

	imuRate int
	rateSrc rateSource

	lastPVAWarn time.Time
	now         func() time.Time
}

// New creates a Translator publishing through publisher.
func New(p Params, publisher pub.Publisher) *Translator {
	t := &Translator{
		pub:   publisher,
		imus:  p.SupportedIMUs,
		trace: p.Trace,
		now:   time.Now,
	}
	if p.RateOverride > 0 {
		t.imuRate = p.RateOverride
		t.rateSrc = rateOverridden
		log.Printf("ins: IMU rate overridden to %d", t.imuRate)
	}
	return t
}

// MessageIDs returns the fixed set of OEM7 logs the translator
// consumes. Handle must only ever see logs from this list.
func (t *Translator) MessageIDs() []oem7.MessageID {
	return []oem7.MessageID{
		oem7.IDCorrIMU,
		oem7.IDRateCorrIMU,
		oem7.IDInsPVA,
		oem7.IDInsPVAX,
		oem7.IDInsStdev,
		oem7.IDInsConfig,
	}
}

// Handle processes one decoded log.
func (t *Translator) Handle(msg oem7.Log) {
	if t.trace {
		log.Printf("ins < [id=%d %s]", msg.MessageID(), msg.MessageID())
	}

	switch m := msg.(type) {
	case *oem7.INSPVA:
		t.inspva = m // cache only

	case *oem7.INSSTDEV:
		t.insstdev = m
		t.pub.Publish(pub.InsStdev, m)

	case *oem7.CorrectedIMU:
		t.handleCorrIMU(m)

	case *oem7.RateCorrectedIMU:
		// Full-rate variant of the same quantity; shares the cache.
		t.handleCorrIMU(&m.CorrectedIMU)

	case *oem7.INSCONFIG:
		t.handleInsConfig(m)

	case *oem7.INSPVAX:
		t.pub.Publish(pub.InsPVAX, m)

	default:
		// MessageIDs is the only source of inbound logs; any other
		// type is a bug in the caller, not a data error.
		panic(fmt.Sprintf("ins: unexpected log type %T", msg))
	}
}

func (t *Translator) handleCorrIMU(m *oem7.CorrectedIMU) {
	t.corrimu = m
	t.pub.Publish(pub.CorrIMU, m)
	t.publishImu()
}

// handleInsConfig republishes the configuration and, exactly once,
// resolves the reported IMU type to a rate through the supported-IMU
// table. A positive override set at construction wins and the lookup
// never runs.
func (t *Translator) handleInsConfig(m *oem7.INSCONFIG) {
	t.pub.Publish(pub.InsConfig, m)

	if t.rateSrc != rateUnset {
		return
	}
	t.rateSrc = rateDerived

	info := t.imus[m.ImuType]
	t.imuRate = info.Rate
	if t.imuRate == 0 {
		log.Printf("ins: ERROR: IMU type=%d is not supported; rate-dependent fields will be unavailable", m.ImuType)
		return
	}
	log.Printf("ins: IMU %q, rate=%d", info.Name, t.imuRate)
}

// publishImu composes the standardized inertial measurement from the
// cached logs. Called after every corrected-IMU arrival.
func (t *Translator) publishImu() {
	if !t.pub.Enabled(pub.IMU) {
		return
	}

	if t.inspva == nil {
		// No partial output without an attitude solution.
		if now := t.now(); now.Sub(t.lastPVAWarn) >= pvaWarnInterval {
			t.lastPVAWarn = now
			log.Printf("ins: WARNING: INSPVA not available; IMU message not generated")
		}
		return
	}

	imu := &nav.Imu{
		Week:         t.corrimu.Week,
		Milliseconds: t.corrimu.Milliseconds,
	}

	// The receiver reports attitude in a left-handed aviation frame;
	// the pitch and azimuth sign inversions convert it to the
	// right-handed output frame. Not a bug.
	imu.Orientation = orientation.FromRollPitchYaw(
		orientation.Radians(t.inspva.Roll),
		-orientation.Radians(t.inspva.Pitch),
		-orientation.Radians(t.inspva.Azimuth),
	)

	if t.insstdev != nil {
		// Diagonal order is pitch, roll, yaw.
		imu.OrientationCovariance[0] = t.insstdev.PitchStdev * t.insstdev.PitchStdev
		imu.OrientationCovariance[4] = t.insstdev.RollStdev * t.insstdev.RollStdev
		imu.OrientationCovariance[8] = t.insstdev.AzimuthStdev * t.insstdev.AzimuthStdev
	}

	if t.corrimu != nil && t.imuRate > 0 {
		// Corrected-IMU values are per-sample deltas; multiplying by
		// the sample rate yields rad/s and m/s².
		rate := float64(t.imuRate)

		imu.AngularVelocity = nav.Vector3{
			X: t.corrimu.PitchRate * rate,
			Y: t.corrimu.RollRate * rate,
			Z: t.corrimu.YawRate * rate,
		}
		imu.LinearAcceleration = nav.Vector3{
			X: t.corrimu.LateralAcc * rate,
			Y: t.corrimu.LongitudinalAcc * rate,
			Z: t.corrimu.VerticalAcc * rate,
		}

		for _, i := range [3]int{0, 4, 8} {
			imu.AngularVelocityCovariance[i] = nominalVariance
			imu.LinearAccelerationCovariance[i] = nominalVariance
		}
	} else {
		imu.AngularVelocityCovariance[0] = dataNotAvailable
		imu.LinearAccelerationCovariance[0] = dataNotAvailable
	}

	t.pub.Publish(pub.IMU, imu)
}
