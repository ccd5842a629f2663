package nav

import (
	"github.com/relabs-tech/oem7_ins_bridge/internal/orientation"
)

// Vector3 is a 3-axis quantity in the output body frame.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Imu is the standardized inertial measurement the bridge publishes:
// orientation as a unit quaternion, angular velocity in rad/s, linear
// acceleration in m/s², each with a 3×3 row-major covariance matrix.
// A negative first covariance entry means the corresponding fields are
// not available.
type Imu struct {
	Week         uint16 `json:"week"`
	Milliseconds uint32 `json:"ms"`

	Orientation           orientation.Quaternion `json:"orientation"`
	OrientationCovariance [9]float64             `json:"orientation_covariance"`

	AngularVelocity           Vector3    `json:"angular_velocity"`
	AngularVelocityCovariance [9]float64 `json:"angular_velocity_covariance"`

	LinearAcceleration           Vector3    `json:"linear_acceleration"`
	LinearAccelerationCovariance [9]float64 `json:"linear_acceleration_covariance"`
}
