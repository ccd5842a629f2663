package orientation

import (
	"math"
)

// Pose is the human-readable attitude in degrees, used by the console
// and the web dashboard.
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Quaternion is a unit rotation quaternion.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// FromRollPitchYaw builds the quaternion for fixed-axis rotations by
// roll about X, pitch about Y and yaw about Z, in that order. Angles
// are in radians.
func FromRollPitchYaw(roll, pitch, yaw float64) Quaternion {
	cr := math.Cos(roll * 0.5)
	sr := math.Sin(roll * 0.5)
	cp := math.Cos(pitch * 0.5)
	sp := math.Sin(pitch * 0.5)
	cy := math.Cos(yaw * 0.5)
	sy := math.Sin(yaw * 0.5)

	return Quaternion{
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
		W: cr*cp*cy + sr*sp*sy,
	}
}

// Pose converts the quaternion back to roll/pitch/yaw in degrees, the
// inverse of FromRollPitchYaw.
func (q Quaternion) Pose() Pose {
	rollRad := math.Atan2(2*(q.W*q.X+q.Y*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))

	// Clamp to handle rounding at the gimbal-lock poles.
	sinPitch := 2 * (q.W*q.Y - q.Z*q.X)
	if sinPitch > 1 {
		sinPitch = 1
	} else if sinPitch < -1 {
		sinPitch = -1
	}
	pitchRad := math.Asin(sinPitch)

	yawRad := math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))

	return Pose{
		Roll:  Degrees(rollRad),
		Pitch: Degrees(pitchRad),
		Yaw:   Degrees(yawRad),
	}
}
