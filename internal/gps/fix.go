package gps

import (
	nmea "github.com/adrianmo/go-nmea"
)

// Fix represents a single combined GPS fix suitable for JSON and MQTT.
type Fix struct {
	Time       string  `json:"time"`        // e.g. "12:34:56"
	Date       string  `json:"date"`        // e.g. "2025-12-06"
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground
	Validity   string  `json:"validity"`    // "A" (valid) / "V" (void), etc.
}

// FromRMC fills a Fix from a parsed RMC sentence.
func FromRMC(m nmea.RMC) Fix {
	return Fix{
		Time:       m.Time.String(),  // e.g. "12:34:56"
		Date:       m.Date.String(),  // library format, fine for now
		Latitude:   m.Latitude,       // decimal degrees
		Longitude:  m.Longitude,      // decimal degrees
		SpeedKnots: m.Speed,          // already in knots
		CourseDeg:  m.Course,         // in degrees
		Validity:   string(m.Validity),
	}
}
