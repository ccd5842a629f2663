package oem7

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// shortFrame builds a short-header binary frame with a valid CRC.
func shortFrame(id MessageID, week uint16, ms uint32, payload []byte) []byte {
	hdr := make([]byte, shortHeaderLen)
	hdr[0], hdr[1], hdr[2] = sync1, sync2, syncShort
	hdr[3] = byte(len(payload))
	binary.LittleEndian.PutUint16(hdr[4:6], uint16(id))
	binary.LittleEndian.PutUint16(hdr[6:8], week)
	binary.LittleEndian.PutUint32(hdr[8:12], ms)

	frame := append(hdr, payload...)
	return binary.LittleEndian.AppendUint32(frame, CRC32(frame))
}

// longFrame builds a 28-byte long-header binary frame with a valid CRC.
func longFrame(id MessageID, week uint16, ms uint32, payload []byte) []byte {
	hdr := make([]byte, 28)
	hdr[0], hdr[1], hdr[2] = sync1, sync2, syncLong
	hdr[3] = 28
	binary.LittleEndian.PutUint16(hdr[4:6], uint16(id))
	binary.LittleEndian.PutUint16(hdr[8:10], uint16(len(payload)))
	binary.LittleEndian.PutUint16(hdr[14:16], week)
	binary.LittleEndian.PutUint32(hdr[16:20], ms)

	frame := append(hdr, payload...)
	return binary.LittleEndian.AppendUint32(frame, CRC32(frame))
}

func mustWrite(t *testing.T, buf *bytes.Buffer, v any) {
	t.Helper()
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		t.Fatalf("binary.Write: %v", err)
	}
}

func inspvaPayload(t *testing.T, roll, pitch, azimuth float64) []byte {
	t.Helper()
	var buf bytes.Buffer
	mustWrite(t, &buf, struct {
		Week                                    uint32
		Seconds                                 float64
		Latitude, Longitude, Height             float64
		NorthVelocity, EastVelocity, UpVelocity float64
		Roll, Pitch, Azimuth                    float64
		Status                                  uint32
	}{
		Week:     2350,
		Seconds:  302410.5,
		Latitude: 51.11,
		Roll:     roll,
		Pitch:    pitch,
		Azimuth:  azimuth,
		Status:   3, // INS_SOLUTION_GOOD
	})
	return buf.Bytes()
}

func nextLog(t *testing.T, d *Decoder) Log {
	t.Helper()
	lg, sentence, err := d.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if sentence != "" {
		t.Fatalf("Next returned NMEA %q, want a binary log", sentence)
	}
	return lg
}

func TestDecodeINSPVAShortFrame(t *testing.T) {
	frame := shortFrame(IDInsPVA, 2350, 302410500, inspvaPayload(t, 1.5, -2.25, 90))
	// Garbage around the frame must not confuse the sync scan.
	stream := append([]byte{0x00, 0xAA, 0xFF}, frame...)

	d := NewDecoder(bytes.NewReader(stream))
	lg := nextLog(t, d)

	m, ok := lg.(*INSPVA)
	if !ok {
		t.Fatalf("got %T, want *INSPVA", lg)
	}
	if m.MessageID() != IDInsPVA {
		t.Fatalf("id=%d want %d", m.MessageID(), IDInsPVA)
	}
	if m.Header.Week != 2350 || m.Milliseconds != 302410500 {
		t.Fatalf("stamp=%d/%d want 2350/302410500", m.Header.Week, m.Milliseconds)
	}
	if m.Roll != 1.5 || m.Pitch != -2.25 || m.Azimuth != 90 {
		t.Fatalf("attitude=%v/%v/%v", m.Roll, m.Pitch, m.Azimuth)
	}
	if m.Status != 3 {
		t.Fatalf("status=%d want 3", m.Status)
	}
}

func TestDecodeINSSTDEVLongFrame(t *testing.T) {
	var buf bytes.Buffer
	mustWrite(t, &buf, struct {
		LatitudeStdev, LongitudeStdev, HeightStdev             float32
		NorthVelocityStdev, EastVelocityStdev, UpVelocityStdev float32
		RollStdev, PitchStdev, AzimuthStdev                    float32
		ExtSolStatus                                           uint32
		TimeSinceUpdate                                        uint16
		Reserved                                               [10]byte
	}{
		RollStdev:    0.2,
		PitchStdev:   0.1,
		AzimuthStdev: 0.3,
		ExtSolStatus: 0x42,
	})

	d := NewDecoder(bytes.NewReader(longFrame(IDInsStdev, 2350, 1000, buf.Bytes())))
	lg := nextLog(t, d)

	m, ok := lg.(*INSSTDEV)
	if !ok {
		t.Fatalf("got %T, want *INSSTDEV", lg)
	}
	if float32(m.RollStdev) != 0.2 || float32(m.PitchStdev) != 0.1 || float32(m.AzimuthStdev) != 0.3 {
		t.Fatalf("stdevs=%v/%v/%v", m.RollStdev, m.PitchStdev, m.AzimuthStdev)
	}
	if m.ExtSolStatus != 0x42 {
		t.Fatalf("ext_sol_status=%#x want 0x42", m.ExtSolStatus)
	}
}

func TestDecodeCorrIMUVariants(t *testing.T) {
	var corr bytes.Buffer
	mustWrite(t, &corr, struct {
		DataCount                                uint32
		PitchRate, RollRate, YawRate             float64
		LateralAcc, LongitudinalAcc, VerticalAcc float64
	}{DataCount: 4, PitchRate: 0.001, VerticalAcc: 0.098})

	var rate bytes.Buffer
	mustWrite(t, &rate, struct {
		Week                                     uint32
		Seconds                                  float64
		PitchRate, RollRate, YawRate             float64
		LateralAcc, LongitudinalAcc, VerticalAcc float64
	}{Week: 2350, Seconds: 1.5, YawRate: -0.002})

	stream := append(shortFrame(IDCorrIMU, 2350, 1000, corr.Bytes()),
		shortFrame(IDRateCorrIMU, 2350, 1010, rate.Bytes())...)
	d := NewDecoder(bytes.NewReader(stream))

	m1, ok := nextLog(t, d).(*CorrectedIMU)
	if !ok || m1.DataCount != 4 || m1.PitchRate != 0.001 || m1.VerticalAcc != 0.098 {
		t.Fatalf("CORRIMUS decode: %+v ok=%v", m1, ok)
	}

	m2, ok := nextLog(t, d).(*RateCorrectedIMU)
	if !ok || m2.YawRate != -0.002 {
		t.Fatalf("IMURATECORRIMUS decode: %+v ok=%v", m2, ok)
	}
	if m2.MessageID() != IDRateCorrIMU {
		t.Fatalf("id=%d want %d", m2.MessageID(), IDRateCorrIMU)
	}
}

func TestDecodeINSCONFIGIgnoresTrailingRecords(t *testing.T) {
	var buf bytes.Buffer
	mustWrite(t, &buf, struct {
		ImuType              uint32
		Mapping              uint8
		InitialAlignmentMode uint8
	}{ImuType: 58, Mapping: 2, InitialAlignmentMode: 1})
	// Variable-length translation/rotation records follow on the wire.
	buf.Write(make([]byte, 64))

	d := NewDecoder(bytes.NewReader(longFrame(IDInsConfig, 2350, 1000, buf.Bytes())))
	m, ok := nextLog(t, d).(*INSCONFIG)
	if !ok {
		t.Fatal("INSCONFIG not decoded")
	}
	if m.ImuType != 58 || m.Mapping != 2 || m.InitialAlignmentMode != 1 {
		t.Fatalf("INSCONFIG=%+v", m)
	}
}

func TestCorruptFrameResync(t *testing.T) {
	bad := shortFrame(IDInsPVA, 2350, 1000, inspvaPayload(t, 1, 2, 3))
	bad[20] ^= 0xFF // corrupt the payload so the CRC fails
	good := shortFrame(IDInsPVA, 2350, 2000, inspvaPayload(t, 4, 5, 6))

	d := NewDecoder(bytes.NewReader(append(bad, good...)))
	m, ok := nextLog(t, d).(*INSPVA)
	if !ok {
		t.Fatal("valid frame after corrupt one not decoded")
	}
	if m.Roll != 4 {
		t.Fatalf("roll=%v, decoder returned the corrupt frame", m.Roll)
	}

	if _, _, err := d.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("err=%v want io.EOF", err)
	}
}

func TestUnsubscribedLogSkipped(t *testing.T) {
	other := shortFrame(MessageID(42), 2350, 1000, []byte{1, 2, 3, 4})
	good := shortFrame(IDInsPVA, 2350, 2000, inspvaPayload(t, 7, 8, 9))

	d := NewDecoder(bytes.NewReader(append(other, good...)))
	m, ok := nextLog(t, d).(*INSPVA)
	if !ok || m.Roll != 7 {
		t.Fatalf("decoder did not skip the unsubscribed log: %+v ok=%v", m, ok)
	}
}

func TestNMEAInterleaved(t *testing.T) {
	sentence := "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A"
	var stream bytes.Buffer
	stream.WriteString(sentence + "\r\n")
	stream.Write(shortFrame(IDInsPVA, 2350, 1000, inspvaPayload(t, 1, 2, 3)))

	d := NewDecoder(&stream)

	lg, got, err := d.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if lg != nil || got != sentence {
		t.Fatalf("got log=%v sentence=%q, want the NMEA sentence", lg, got)
	}

	if _, ok := nextLog(t, d).(*INSPVA); !ok {
		t.Fatal("binary log after the NMEA sentence not decoded")
	}
}

func TestCRC32Distinguishes(t *testing.T) {
	data := []byte("the quick brown fox")
	a := CRC32(data)

	flipped := append([]byte{}, data...)
	flipped[0] ^= 0x01
	if b := CRC32(flipped); a == b {
		t.Fatalf("CRC32 collision on single-bit flip: %#x", a)
	}

	if CRC32(nil) != 0 {
		t.Fatalf("CRC32(nil)=%#x want 0", CRC32(nil))
	}
}
