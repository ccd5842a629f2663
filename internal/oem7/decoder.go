package oem7

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"strings"
)

// OEM7 binary frame layout: sync bytes, header (28-byte long form or
// 12-byte short form), payload, 32-bit CRC over header+payload.
const (
	sync1     = 0xAA
	sync2     = 0x44
	syncLong  = 0x12
	syncShort = 0x13

	shortHeaderLen = 12
	maxHeaderLen   = 64
	maxPayloadLen  = 8192
)

// Decoder extracts the bridge's subscribed logs from a raw receiver
// byte stream. Frames with bad CRCs, implausible lengths or
// unsubscribed message ids are dropped and scanning resumes at the next
// sync pattern. ASCII NMEA sentences interleaved on the same port are
// surfaced as raw strings.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 4096)}
}

// Next returns the next decoded binary log or NMEA sentence from the
// stream: exactly one of the two results is set. The error is the
// stream error that stopped scanning (io.EOF at end of input).
func (d *Decoder) Next() (Log, string, error) {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, "", err
		}
		switch b {
		case '$':
			line, err := d.r.ReadString('\n')
			if err != nil {
				return nil, "", err
			}
			return nil, "$" + strings.TrimRight(line, "\r\n"), nil
		case sync1:
			lg, err := d.readFrame()
			if err != nil {
				return nil, "", err
			}
			if lg != nil {
				return lg, "", nil
			}
		}
	}
}

// readFrame parses one binary frame after its leading sync byte has
// been consumed. A nil, nil return means "not a valid frame here, keep
// scanning".
func (d *Decoder) readFrame() (Log, error) {
	pre, err := d.r.Peek(2)
	if err != nil {
		return nil, err
	}
	if pre[0] != sync2 || (pre[1] != syncLong && pre[1] != syncShort) {
		return nil, nil
	}
	form := pre[1]
	if _, err := d.r.Discard(2); err != nil {
		return nil, err
	}

	var hdr []byte
	if form == syncShort {
		hdr = make([]byte, shortHeaderLen)
	} else {
		hlen, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}
		if hlen < 28 || hlen > maxHeaderLen {
			return nil, nil
		}
		hdr = make([]byte, hlen)
		hdr[3] = hlen
	}
	hdr[0], hdr[1], hdr[2] = sync1, sync2, form

	consumed := 4
	if form == syncShort {
		consumed = 3
	}
	if _, err := io.ReadFull(d.r, hdr[consumed:]); err != nil {
		return nil, err
	}

	var h Header
	var payloadLen int
	h.ID = MessageID(binary.LittleEndian.Uint16(hdr[4:6]))
	if form == syncShort {
		payloadLen = int(hdr[3])
		h.Week = binary.LittleEndian.Uint16(hdr[6:8])
		h.Milliseconds = binary.LittleEndian.Uint32(hdr[8:12])
	} else {
		payloadLen = int(binary.LittleEndian.Uint16(hdr[8:10]))
		h.Week = binary.LittleEndian.Uint16(hdr[14:16])
		h.Milliseconds = binary.LittleEndian.Uint32(hdr[16:20])
	}
	if payloadLen > maxPayloadLen {
		return nil, nil
	}

	body := make([]byte, payloadLen+4)
	if _, err := io.ReadFull(d.r, body); err != nil {
		return nil, err
	}
	payload := body[:payloadLen]
	want := binary.LittleEndian.Uint32(body[payloadLen:])
	if CRC32(append(append([]byte{}, hdr...), payload...)) != want {
		return nil, nil
	}
	return decodePayload(h, payload), nil
}

// decodePayload maps a CRC-verified payload to its log type. Logs
// outside the subscription list decode to nil, which keeps the
// translator's closed dispatch honest.
func decodePayload(h Header, payload []byte) Log {
	r := bytes.NewReader(payload)
	switch h.ID {
	case IDInsPVA:
		var w struct {
			Week                                    uint32
			Seconds                                 float64
			Latitude, Longitude, Height             float64
			NorthVelocity, EastVelocity, UpVelocity float64
			Roll, Pitch, Azimuth                    float64
			Status                                  uint32
		}
		if binary.Read(r, binary.LittleEndian, &w) != nil {
			return nil
		}
		return &INSPVA{
			Header:        h,
			Week:          w.Week,
			Seconds:       w.Seconds,
			Latitude:      w.Latitude,
			Longitude:     w.Longitude,
			Height:        w.Height,
			NorthVelocity: w.NorthVelocity,
			EastVelocity:  w.EastVelocity,
			UpVelocity:    w.UpVelocity,
			Roll:          w.Roll,
			Pitch:         w.Pitch,
			Azimuth:       w.Azimuth,
			Status:        w.Status,
		}

	case IDCorrIMU:
		var w struct {
			DataCount                                uint32
			PitchRate, RollRate, YawRate             float64
			LateralAcc, LongitudinalAcc, VerticalAcc float64
		}
		if binary.Read(r, binary.LittleEndian, &w) != nil {
			return nil
		}
		return &CorrectedIMU{
			Header:          h,
			DataCount:       w.DataCount,
			PitchRate:       w.PitchRate,
			RollRate:        w.RollRate,
			YawRate:         w.YawRate,
			LateralAcc:      w.LateralAcc,
			LongitudinalAcc: w.LongitudinalAcc,
			VerticalAcc:     w.VerticalAcc,
		}

	case IDRateCorrIMU:
		var w struct {
			Week                                     uint32
			Seconds                                  float64
			PitchRate, RollRate, YawRate             float64
			LateralAcc, LongitudinalAcc, VerticalAcc float64
		}
		if binary.Read(r, binary.LittleEndian, &w) != nil {
			return nil
		}
		return &RateCorrectedIMU{CorrectedIMU: CorrectedIMU{
			Header:          h,
			DataCount:       1, // one sample per full-rate log
			PitchRate:       w.PitchRate,
			RollRate:        w.RollRate,
			YawRate:         w.YawRate,
			LateralAcc:      w.LateralAcc,
			LongitudinalAcc: w.LongitudinalAcc,
			VerticalAcc:     w.VerticalAcc,
		}}

	case IDInsStdev:
		var w struct {
			LatitudeStdev, LongitudeStdev, HeightStdev             float32
			NorthVelocityStdev, EastVelocityStdev, UpVelocityStdev float32
			RollStdev, PitchStdev, AzimuthStdev                    float32
			ExtSolStatus                                           uint32
			TimeSinceUpdate                                        uint16
		}
		if binary.Read(r, binary.LittleEndian, &w) != nil {
			return nil
		}
		return &INSSTDEV{
			Header:             h,
			LatitudeStdev:      float64(w.LatitudeStdev),
			LongitudeStdev:     float64(w.LongitudeStdev),
			HeightStdev:        float64(w.HeightStdev),
			NorthVelocityStdev: float64(w.NorthVelocityStdev),
			EastVelocityStdev:  float64(w.EastVelocityStdev),
			UpVelocityStdev:    float64(w.UpVelocityStdev),
			RollStdev:          float64(w.RollStdev),
			PitchStdev:         float64(w.PitchStdev),
			AzimuthStdev:       float64(w.AzimuthStdev),
			ExtSolStatus:       w.ExtSolStatus,
			TimeSinceUpdate:    w.TimeSinceUpdate,
		}

	case IDInsPVAX:
		var w struct {
			InsStatus, PositionType                                uint32
			Latitude, Longitude, Height                            float64
			Undulation                                             float32
			NorthVelocity, EastVelocity, UpVelocity                float64
			Roll, Pitch, Azimuth                                   float64
			LatitudeStdev, LongitudeStdev, HeightStdev             float32
			NorthVelocityStdev, EastVelocityStdev, UpVelocityStdev float32
			RollStdev, PitchStdev, AzimuthStdev                    float32
			ExtendedStatus                                         uint32
			TimeSinceUpdate                                        uint16
		}
		if binary.Read(r, binary.LittleEndian, &w) != nil {
			return nil
		}
		return &INSPVAX{
			Header:             h,
			InsStatus:          w.InsStatus,
			PositionType:       w.PositionType,
			Latitude:           w.Latitude,
			Longitude:          w.Longitude,
			Height:             w.Height,
			Undulation:         float64(w.Undulation),
			NorthVelocity:      w.NorthVelocity,
			EastVelocity:       w.EastVelocity,
			UpVelocity:         w.UpVelocity,
			Roll:               w.Roll,
			Pitch:              w.Pitch,
			Azimuth:            w.Azimuth,
			LatitudeStdev:      float64(w.LatitudeStdev),
			LongitudeStdev:     float64(w.LongitudeStdev),
			HeightStdev:        float64(w.HeightStdev),
			NorthVelocityStdev: float64(w.NorthVelocityStdev),
			EastVelocityStdev:  float64(w.EastVelocityStdev),
			UpVelocityStdev:    float64(w.UpVelocityStdev),
			RollStdev:          float64(w.RollStdev),
			PitchStdev:         float64(w.PitchStdev),
			AzimuthStdev:       float64(w.AzimuthStdev),
			ExtendedStatus:     w.ExtendedStatus,
			TimeSinceUpdate:    w.TimeSinceUpdate,
		}

	case IDInsConfig:
		var w struct {
			ImuType              uint32
			Mapping              uint8
			InitialAlignmentMode uint8
		}
		if binary.Read(r, binary.LittleEndian, &w) != nil {
			return nil
		}
		return &INSCONFIG{
			Header:               h,
			ImuType:              w.ImuType,
			Mapping:              w.Mapping,
			InitialAlignmentMode: w.InitialAlignmentMode,
		}
	}
	return nil
}
