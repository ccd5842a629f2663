package pub

// Output names one of the bridge's publication channels. Each output is
// independently enableable through configuration.
type Output int

const (
	IMU Output = iota
	CorrIMU
	InsStdev
	InsPVAX
	InsConfig
	GPS
)

func (o Output) String() string {
	switch o {
	case IMU:
		return "imu"
	case CorrIMU:
		return "corrimu"
	case InsStdev:
		return "insstdev"
	case InsPVAX:
		return "inspvax"
	case InsConfig:
		return "insconfig"
	case GPS:
		return "gps"
	}
	return "unknown"
}

// Publisher delivers bridge outputs. Publish must drop the message when
// the output is disabled and must never propagate delivery failures to
// the caller; producers treat publication as fire-and-forget.
type Publisher interface {
	Enabled(out Output) bool
	Publish(out Output, v any)
}
