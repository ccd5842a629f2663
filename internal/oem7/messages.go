package oem7

// MessageID is the numeric id of an OEM7 log, as reported in the binary
// message header.
type MessageID uint16

// The six logs the bridge subscribes to.
const (
	IDInsPVA      MessageID = 508  // INSPVAS: position/velocity/attitude solution
	IDRateCorrIMU MessageID = 1362 // IMURATECORRIMUS: corrected IMU data at full rate
	IDInsPVAX     MessageID = 1465 // INSPVAX: extended PVA with solution status
	IDInsConfig   MessageID = 1945 // INSCONFIG: INS/IMU configuration
	IDInsStdev    MessageID = 2051 // INSSTDEV: solution standard deviations
	IDCorrIMU     MessageID = 2264 // CORRIMUS: corrected IMU data
)

func (id MessageID) String() string {
	switch id {
	case IDInsPVA:
		return "INSPVAS"
	case IDRateCorrIMU:
		return "IMURATECORRIMUS"
	case IDInsPVAX:
		return "INSPVAX"
	case IDInsConfig:
		return "INSCONFIG"
	case IDInsStdev:
		return "INSSTDEV"
	case IDCorrIMU:
		return "CORRIMUS"
	}
	return "UNKNOWN"
}

// Header carries the receiver time stamp shared by the long and short
// binary headers.
type Header struct {
	ID           MessageID `json:"id"`
	Week         uint16    `json:"week"`
	Milliseconds uint32    `json:"ms"` // milliseconds into the GPS week
}

// MessageID satisfies Log for every type that embeds Header.
func (h Header) MessageID() MessageID { return h.ID }

// Log is a decoded OEM7 log. The decoder only produces the six types
// declared in this file.
type Log interface {
	MessageID() MessageID
}

// INSPVA is the INS position/velocity/attitude solution. Attitude is in
// degrees; azimuth is left-handed about +Z (the aviation convention).
type INSPVA struct {
	Header        `json:"header"`
	Week          uint32  `json:"week"`
	Seconds       float64 `json:"seconds"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Height        float64 `json:"height"`
	NorthVelocity float64 `json:"north_velocity"`
	EastVelocity  float64 `json:"east_velocity"`
	UpVelocity    float64 `json:"up_velocity"`
	Roll          float64 `json:"roll"`
	Pitch         float64 `json:"pitch"`
	Azimuth       float64 `json:"azimuth"`
	Status        uint32  `json:"status"`
}

// CorrectedIMU carries error-corrected IMU deltas. The values are
// per-sample accumulations; multiply by the IMU sample rate to get
// rad/s and m/s².
type CorrectedIMU struct {
	Header          `json:"header"`
	DataCount       uint32  `json:"data_count"`
	PitchRate       float64 `json:"pitch_rate"`
	RollRate        float64 `json:"roll_rate"`
	YawRate         float64 `json:"yaw_rate"`
	LateralAcc      float64 `json:"lateral_acc"`
	LongitudinalAcc float64 `json:"longitudinal_acc"`
	VerticalAcc     float64 `json:"vertical_acc"`
}

// RateCorrectedIMU is the full-rate variant of CorrectedIMU. Same
// physical quantities, different log framing on the wire.
type RateCorrectedIMU struct {
	CorrectedIMU
}

// INSSTDEV reports the standard deviations of the INS solution, in the
// same units as the quantities they describe (degrees for attitude).
type INSSTDEV struct {
	Header             `json:"header"`
	LatitudeStdev      float64 `json:"latitude_stdev"`
	LongitudeStdev     float64 `json:"longitude_stdev"`
	HeightStdev        float64 `json:"height_stdev"`
	NorthVelocityStdev float64 `json:"north_velocity_stdev"`
	EastVelocityStdev  float64 `json:"east_velocity_stdev"`
	UpVelocityStdev    float64 `json:"up_velocity_stdev"`
	RollStdev          float64 `json:"roll_stdev"`
	PitchStdev         float64 `json:"pitch_stdev"`
	AzimuthStdev       float64 `json:"azimuth_stdev"`
	ExtSolStatus       uint32  `json:"ext_sol_status"`
	TimeSinceUpdate    uint16  `json:"time_since_update"`
}

// INSPVAX is the extended PVA solution with per-field accuracies.
type INSPVAX struct {
	Header             `json:"header"`
	InsStatus          uint32  `json:"ins_status"`
	PositionType       uint32  `json:"position_type"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Height             float64 `json:"height"`
	Undulation         float64 `json:"undulation"`
	NorthVelocity      float64 `json:"north_velocity"`
	EastVelocity       float64 `json:"east_velocity"`
	UpVelocity         float64 `json:"up_velocity"`
	Roll               float64 `json:"roll"`
	Pitch              float64 `json:"pitch"`
	Azimuth            float64 `json:"azimuth"`
	LatitudeStdev      float64 `json:"latitude_stdev"`
	LongitudeStdev     float64 `json:"longitude_stdev"`
	HeightStdev        float64 `json:"height_stdev"`
	NorthVelocityStdev float64 `json:"north_velocity_stdev"`
	EastVelocityStdev  float64 `json:"east_velocity_stdev"`
	UpVelocityStdev    float64 `json:"up_velocity_stdev"`
	RollStdev          float64 `json:"roll_stdev"`
	PitchStdev         float64 `json:"pitch_stdev"`
	AzimuthStdev       float64 `json:"azimuth_stdev"`
	ExtendedStatus     uint32  `json:"extended_status"`
	TimeSinceUpdate    uint16  `json:"time_since_update"`
}

// INSCONFIG describes the INS setup. Only the leading fixed fields are
// decoded; the variable-length translation/rotation records that follow
// are not used by the bridge.
type INSCONFIG struct {
	Header               `json:"header"`
	ImuType              uint32 `json:"imu_type"`
	Mapping              uint8  `json:"mapping"`
	InitialAlignmentMode uint8  `json:"initial_alignment_mode"`
}
