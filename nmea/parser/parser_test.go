package parser

import (
	"testing"

	"github.com/goblimey/go-gpswire/nmea/message"
)

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

// parseOne runs s through a Parser and returns the first message
// delivered, or nil if none was.
func parseOne(s string) *message.Message {
	var got *message.Message
	p := New(&fakeSource{data: []byte(s)}, nil, func(m *message.Message) {
		cp := *m
		got = &cp
	})
	p.Drain()
	return got
}

func TestGGAScenario1(t *testing.T) {
	const sentence = "$GPGGA,002153.000,3342.6618,N,11751.3858,W,1,10,1.2,27.0,M,-34.2,M,,0000*5E\r\n"
	m := parseOne(sentence)
	if m == nil {
		t.Fatal("no message delivered")
	}
	if m.ID != message.GGA {
		t.Fatalf("want GGA got %d", m.ID)
	}
	if m.GGA.NSIndicator != 'N' {
		t.Fatalf("want nsIndicator 'N' got %c", m.GGA.NSIndicator)
	}
	if m.GGA.DiffRefStationID != 0 {
		t.Fatalf("want diffRefStationID 0 got %d", m.GGA.DiffRefStationID)
	}
}

func TestGGAScenario2EmptyFieldsLeaveSentinel(t *testing.T) {
	const sentence = "$GPGGA,075318.181,,,,,0,00,,,M,0.0,M,,0000*56\r\n"
	m := parseOne(sentence)
	if m == nil {
		t.Fatal("no message delivered")
	}
	if m.GGA.UTCTime.Hour != 7 || m.GGA.UTCTime.Minute != 53 || m.GGA.UTCTime.Second != 18 || m.GGA.UTCTime.Millisecond != 181 {
		t.Fatalf("want 07:53:18.181 got %+v", m.GGA.UTCTime)
	}
	sentinel := message.D16_16{IntegerPart: -1, FractionalPart: 0xFFFF}
	if m.GGA.Latitude != sentinel {
		t.Fatalf("want sentinel latitude got %+v", m.GGA.Latitude)
	}
	if m.GGA.Longitude != sentinel {
		t.Fatalf("want sentinel longitude got %+v", m.GGA.Longitude)
	}
}

func TestRMCScenario3(t *testing.T) {
	const sentence = "$GPRMC,161229.487,A,3723.2475,N,12158.3416,W,0.13,309.62,120598,,*10\r\n"
	m := parseOne(sentence)
	if m == nil {
		t.Fatal("no message delivered")
	}
	if m.ID != message.RMC {
		t.Fatalf("want RMC got %d", m.ID)
	}
	want := message.Date{Day: 12, Month: 5, Year: 98}
	if m.RMC.Date != want {
		t.Fatalf("want date %+v got %+v", want, m.RMC.Date)
	}
}

func TestPSRF150Scenario4(t *testing.T) {
	m := parseOne("$PSRF150,1*3E\r\n")
	if m == nil {
		t.Fatal("no message delivered")
	}
	if m.ID != message.PSRF150 {
		t.Fatalf("want PSRF150 got %d", m.ID)
	}
	if m.PSRF150.OkToSend != 1 {
		t.Fatalf("want okToSend 1 got %d", m.PSRF150.OkToSend)
	}
}

func TestPSRF151Scenario5(t *testing.T) {
	m := parseOne("$PSRF151,1,1324,,0x40000001*5A\r\n")
	if m == nil {
		t.Fatal("no message delivered")
	}
	if m.ID != message.PSRF151 {
		t.Fatalf("want PSRF151 got %d", m.ID)
	}
	if m.PSRF151.EphReqMask != 0x40000001 {
		t.Fatalf("want ephReqMask 0x40000001 got 0x%08X", m.PSRF151.EphReqMask)
	}
}

func TestPSRF154Scenario6(t *testing.T) {
	m := parseOne("$PSRF154,107*3D\r\n")
	if m == nil {
		t.Fatal("no message delivered")
	}
	if m.ID != message.PSRF154 {
		t.Fatalf("want PSRF154 got %d", m.ID)
	}
	if m.PSRF154.AckID != 107 {
		t.Fatalf("want ackID 107 got %d", m.PSRF154.AckID)
	}
}

func TestChecksumMismatchPreventsDelivery(t *testing.T) {
	// Same as scenario 4 but with a corrupted checksum.
	m := parseOne("$PSRF150,1*00\r\n")
	if m != nil {
		t.Fatalf("want no delivery, got %+v", m)
	}
}

func TestMutatedByteBreaksChecksum(t *testing.T) {
	// Mutate a single byte of a valid sentence between '$' and '*'.
	valid := "$PSRF150,1*3E\r\n"
	mutated := "$PSRF150,2*3E\r\n"
	if m := parseOne(valid); m == nil {
		t.Fatal("valid sentence should have delivered")
	}
	if m := parseOne(mutated); m != nil {
		t.Fatalf("mutated sentence should not have delivered, got %+v", m)
	}
}

func TestResynchronisationAfterInvalidSentence(t *testing.T) {
	// An invalid sentence (unknown tag) followed by \r\n, then a valid one.
	const stream = "$GPZZZ,1,2,3*00\r\n$PSRF150,1*3E\r\n"
	var delivered []message.Message
	p := New(&fakeSource{data: []byte(stream)}, nil, func(m *message.Message) {
		delivered = append(delivered, *m)
	})
	p.Drain()

	if len(delivered) != 1 {
		t.Fatalf("want 1 delivered message got %d", len(delivered))
	}
	if delivered[0].ID != message.PSRF150 {
		t.Fatalf("want PSRF150 got %d", delivered[0].ID)
	}
}

func TestIdempotentReset(t *testing.T) {
	const sentence = "$GPRMC,161229.487,A,3723.2475,N,12158.3416,W,0.13,309.62,120598,,*10\r\n"
	m1 := parseOne(sentence)
	m2 := parseOne(sentence)
	if m1 == nil || m2 == nil {
		t.Fatal("both parses should deliver")
	}
	if *m1 != *m2 {
		t.Fatalf("want identical records, got %+v vs %+v", m1, m2)
	}
}

func TestGSVPartialFinalGroupNeedsNoPadding(t *testing.T) {
	// 5 satellites in view across 2 messages: the first carries 4, the
	// second carries only 1 - no padding required on the wire.
	const sentence = "$GPGSV,2,2,05,23,30,180,40*43\r\n"
	m := parseOne(sentence)
	if m == nil {
		t.Fatal("no message delivered")
	}
	if m.ID != message.GSV {
		t.Fatalf("want GSV got %d", m.ID)
	}
	if m.GSV.Satellites[0].ID != 23 {
		t.Fatalf("want satellite id 23 got %d", m.GSV.Satellites[0].ID)
	}
	if m.GSV.Satellites[1].ID != message.SentinelByte {
		t.Fatalf("want remaining satellite slots at sentinel, got %+v", m.GSV.Satellites[1])
	}
}
