package frame

import (
	"testing"

	"github.com/goblimey/go-gpswire/sirf/message"
)

// fakeSource is an in-memory buffer.ByteSource that the framer polls.
type fakeSource struct {
	data []byte
	pos  int
}

func (f *fakeSource) Available() bool { return f.pos < len(f.data) }
func (f *fakeSource) Read() byte {
	b := f.data[f.pos]
	f.pos++
	return b
}

func putBE16(b []byte, off int, v uint16) {
	b[off] = byte(v >> 8)
	b[off+1] = byte(v)
}

func putBE32(b []byte, off int, v uint32) {
	b[off] = byte(v >> 24)
	b[off+1] = byte(v >> 16)
	b[off+2] = byte(v >> 8)
	b[off+3] = byte(v)
}

func checksumOf(payload []byte) uint16 {
	var sum uint16
	for _, b := range payload {
		sum = (sum + uint16(b)) & 0x7FFF
	}
	return sum
}

func frameBytes(payload []byte) []byte {
	out := []byte{0xA0, 0xA2, byte(len(payload) >> 8), byte(len(payload))}
	out = append(out, payload...)
	sum := checksumOf(payload)
	out = append(out, byte(sum>>8), byte(sum))
	out = append(out, 0xB0, 0xB3)
	return out
}

func geodeticPayload() []byte {
	p := make([]byte, 91)
	p[0] = byte(message.GeodeticNavigationDataID)
	putBE16(p, 1, 0x0001)       // NavValid
	putBE16(p, 3, 0x0004)       // NavType
	putBE16(p, 5, 1200)         // ExtendedWeekNumber
	putBE32(p, 7, 123456)       // TOW
	putBE16(p, 11, 2024)        // UTCYear
	p[13] = 6                   // UTCMonth
	p[14] = 15                  // UTCDay
	p[15] = 12                  // UTCHour
	p[16] = 30                  // UTCMinute
	putBE16(p, 17, 4500)        // UTCSecond (scaled)
	putBE32(p, 19, 0xABCD1234)  // SatelliteIDList
	putBE32(p, 23, 334266180)   // Latitude
	putBE32(p, 27, 117513858)   // Longitude
	putBE32(p, 31, 1000)        // AltitudeFromEllipsoid
	putBE32(p, 35, 900)         // AltitudeFromMSL
	p[39] = 0                   // MapDatum (WGS84)
	putBE16(p, 40, 130)         // SpeedOverGround
	putBE16(p, 42, 3096)        // CourseOverGround
	p[88] = 10                  // NumberOfSVsInFix
	p[89] = 12                  // HDOP
	p[90] = 0                   // AdditionalModeInfo
	return p
}

func TestGeodeticNavigationDataDecodesToHostOrder(t *testing.T) {
	payload := geodeticPayload()
	src := &fakeSource{data: frameBytes(payload)}

	var got *message.OutputMessage
	f := New(src, func(m *message.OutputMessage) {
		cp := *m
		got = &cp
	})
	f.Poll()

	if got == nil {
		t.Fatal("no packet delivered")
	}
	if got.ID != message.GeodeticNavigationDataID {
		t.Fatalf("want id 41 got %d", got.ID)
	}
	g := got.GeodeticNavigationData
	if g.NavValid != 0x0001 {
		t.Fatalf("want navValid 0x0001 got 0x%04X", g.NavValid)
	}
	if g.ExtendedWeekNumber != 1200 {
		t.Fatalf("want week 1200 got %d", g.ExtendedWeekNumber)
	}
	if g.TOW != 123456 {
		t.Fatalf("want TOW 123456 got %d", g.TOW)
	}
	if g.UTCYear != 2024 || g.UTCMonth != 6 || g.UTCDay != 15 {
		t.Fatalf("want 2024-06-15 got %d-%d-%d", g.UTCYear, g.UTCMonth, g.UTCDay)
	}
	if g.SatelliteIDList != 0xABCD1234 {
		t.Fatalf("want satellite list 0xABCD1234 got 0x%08X", g.SatelliteIDList)
	}
	if g.NumberOfSVsInFix != 10 || g.HDOP != 12 {
		t.Fatalf("want 10 SVs / HDOP 12 got %d / %d", g.NumberOfSVsInFix, g.HDOP)
	}
}

func TestChecksumMismatchPreventsDelivery(t *testing.T) {
	payload := geodeticPayload()
	frame := frameBytes(payload)
	// Corrupt the checksum's low byte.
	frame[len(frame)-3] ^= 0xFF

	var delivered bool
	src := &fakeSource{data: frame}
	f := New(src, func(*message.OutputMessage) { delivered = true })
	f.Poll()

	if delivered {
		t.Fatal("want no delivery on checksum mismatch")
	}
}

func TestMutatedPayloadByteBreaksChecksum(t *testing.T) {
	payload := geodeticPayload()
	frame := frameBytes(payload)
	// Mutate a payload byte without recomputing the checksum that follows.
	frame[4+10] ^= 0x01

	var delivered bool
	src := &fakeSource{data: frame}
	f := New(src, func(*message.OutputMessage) { delivered = true })
	f.Poll()

	if delivered {
		t.Fatal("want no delivery when a payload byte is mutated")
	}
}

func TestResynchronisationAfterGarbage(t *testing.T) {
	payload := geodeticPayload()
	garbage := []byte{0x01, 0x02, 0xA0, 0x03, 0xA0, 0xA2, 0xFF}
	stream := append(garbage, frameBytes(payload)...)

	var got *message.OutputMessage
	src := &fakeSource{data: stream}
	f := New(src, func(m *message.OutputMessage) {
		cp := *m
		got = &cp
	})
	f.Poll()

	if got == nil {
		t.Fatal("want the valid packet after garbage to be decoded")
	}
	if got.ID != message.GeodeticNavigationDataID {
		t.Fatalf("want id 41 got %d", got.ID)
	}
}

func TestOversizedPayloadIsDiscarded(t *testing.T) {
	frame := []byte{0xA0, 0xA2, 0x04, 0x00} // length 1024, the forbidden boundary
	var delivered bool
	src := &fakeSource{data: frame}
	f := New(src, func(*message.OutputMessage) { delivered = true })
	f.Poll()

	if delivered {
		t.Fatal("want no delivery for an oversized length field")
	}
	if f.state != stateStartA0 {
		t.Fatalf("want framer reset to stateStartA0, got %v", f.state)
	}
}

func TestCommandAcknowledgmentBody(t *testing.T) {
	payload := []byte{byte(message.CommandAcknowledgmentID), 135}
	src := &fakeSource{data: frameBytes(payload)}

	var got *message.OutputMessage
	f := New(src, func(m *message.OutputMessage) {
		cp := *m
		got = &cp
	})
	f.Poll()

	if got == nil {
		t.Fatal("no packet delivered")
	}
	if got.CommandAcknowledgment.AckID != 135 {
		t.Fatalf("want ackID 135 got %d", got.CommandAcknowledgment.AckID)
	}
}

func TestUnknownMessageIDValidatesButDeliversNothing(t *testing.T) {
	payload := []byte{0xEE, 1, 2, 3}
	src := &fakeSource{data: frameBytes(payload)}

	var delivered bool
	f := New(src, func(*message.OutputMessage) { delivered = true })
	f.Poll()

	if delivered {
		t.Fatal("want no delivery for an unrecognised message id")
	}
}
