// Package frame implements the SiRF binary packet framer: a five-state
// machine that recognises A0 A2 | LEN | payload | checksum | B0 B3 frames,
// validates the sum-mod-2^15 checksum, and decodes the payload into a
// sirf/message.OutputMessage.
//
// Byte-aligned big-endian field extraction is done with plain shifts,
// rather than encoding/binary -
// there is no struct-tag-driven marshalling anywhere in this stack, and a
// handful of fixed offsets reads just as plainly without it.
package frame

import (
	"github.com/goblimey/go-gpswire/buffer"
	"github.com/goblimey/go-gpswire/sirf/message"
)

const maxPayload = 1024

type state int

const (
	stateStartA0 state = iota
	stateStartA2
	stateLenHi
	stateLenLo
	statePayload
	stateChecksumHi
	stateChecksumLo
	stateEndB0 // expect 0xB0
	stateEndB1 // 0xB0 seen, expect 0xB3
)

// Listener receives a decoded packet. The reference is only valid for the
// duration of the call.
type Listener func(*message.OutputMessage)

// Framer decodes one SiRF binary byte stream.
type Framer struct {
	source buffer.ByteSource
	listen Listener

	state state

	payloadLen int
	payloadPos int
	payload    [maxPayload]byte

	lenHi byte

	sum       uint16
	sumHi     byte

	msg message.OutputMessage
}

// New creates a Framer reading from source and delivering decoded packets
// to listener.
func New(source buffer.ByteSource, listener Listener) *Framer {
	return &Framer{source: source, listen: listener}
}

// Poll consumes every byte currently available from the source, decoding
// and delivering zero or more completed packets before returning. This is
// the polling style of drive the concurrency model describes for the SiRF
// side, as opposed to the NMEA parser's one-token-at-a-time pull style.
func (f *Framer) Poll() {
	for f.source.Available() {
		f.step(f.source.Read())
	}
}

func (f *Framer) step(b byte) {
	switch f.state {
	case stateStartA0:
		if b == 0xA0 {
			f.state = stateStartA2
		}
	case stateStartA2:
		if b == 0xA2 {
			f.state = stateLenHi
		} else {
			f.state = stateStartA0
		}
	case stateLenHi:
		if b > 0x7F {
			f.state = stateStartA0
			return
		}
		f.lenHi = b
		f.state = stateLenLo
	case stateLenLo:
		length := int(f.lenHi)<<8 | int(b)
		if length >= maxPayload {
			f.state = stateStartA0
			return
		}
		f.payloadLen = length
		f.payloadPos = 0
		f.sum = 0
		f.state = statePayload
		if length == 0 {
			f.state = stateChecksumHi
		}
	case statePayload:
		f.payload[f.payloadPos] = b
		f.sum = (f.sum + uint16(b)) & 0x7FFF
		f.payloadPos++
		if f.payloadPos == f.payloadLen {
			f.state = stateChecksumHi
		}
	case stateChecksumHi:
		if b > 0x7F {
			f.state = stateStartA0
			return
		}
		f.sumHi = b
		f.state = stateChecksumLo
	case stateChecksumLo:
		wire := uint16(f.sumHi)<<8 | uint16(b)
		if wire != f.sum {
			f.state = stateStartA0
			return
		}
		f.state = stateEndB0
	case stateEndB0:
		if b == 0xB0 {
			f.state = stateEndB1
		} else {
			f.state = stateStartA0
		}
	case stateEndB1:
		if b == 0xB3 {
			f.deliver()
		}
		f.state = stateStartA0
	}
}

func (f *Framer) deliver() {
	if f.payloadLen == 0 {
		return
	}
	if !decodeBody(f.payload[:f.payloadLen], &f.msg) {
		return
	}
	if f.listen != nil {
		f.listen(&f.msg)
	}
}

func be16(b []byte, off int) uint16 {
	return uint16(b[off])<<8 | uint16(b[off+1])
}

func be32(b []byte, off int) uint32 {
	return uint32(b[off])<<24 | uint32(b[off+1])<<16 | uint32(b[off+2])<<8 | uint32(b[off+3])
}

// decodeBody fills msg from a complete payload. It reports false for an
// unrecognised message id; the framer still validated and will still
// discard the packet normally, it just has nothing to deliver.
func decodeBody(p []byte, msg *message.OutputMessage) bool {
	if len(p) == 0 {
		return false
	}
	id := int(p[0])
	switch id {
	case message.GeodeticNavigationDataID:
		return decodeGeodeticNavigationData(p, msg)
	case message.CommandAcknowledgmentID:
		if len(p) < 2 {
			return false
		}
		msg.ID = id
		msg.CommandAcknowledgment = message.CommandAcknowledgment{AckID: p[1]}
		return true
	case message.CPUThroughputID:
		if len(p) < 9 {
			return false
		}
		msg.ID = id
		msg.CPUThroughput = message.CPUThroughput{
			SegStatMax:      be16(p, 1),
			SegStatLat:      be16(p, 3),
			AveTrkTime:      be16(p, 5),
			LastMillisecond: be16(p, 7),
		}
		return true
	default:
		return false
	}
}

func decodeGeodeticNavigationData(p []byte, msg *message.OutputMessage) bool {
	const minLength = 91
	if len(p) < minLength {
		return false
	}

	g := message.GeodeticNavigationData{
		NavValid:           be16(p, 1),
		NavType:            be16(p, 3),
		ExtendedWeekNumber: be16(p, 5),
		TOW:                be32(p, 7),
		UTCYear:            be16(p, 11),
		UTCMonth:           p[13],
		UTCDay:             p[14],
		UTCHour:            p[15],
		UTCMinute:          p[16],
		UTCSecond:          be16(p, 17),
		SatelliteIDList:    be32(p, 19),
		Latitude:           int32(be32(p, 23)),
		Longitude:          int32(be32(p, 27)),
		AltitudeFromEllipsoid: int32(be32(p, 31)),
		AltitudeFromMSL:    int32(be32(p, 35)),
		MapDatum:           int8(p[39]),
		SpeedOverGround:    be16(p, 40),
		CourseOverGround:   be16(p, 42),
		MagneticVariation:  int16(be16(p, 44)),
		ClimbRate:          int16(be16(p, 46)),
		HeadingRate:        int16(be16(p, 48)),
		EstimatedHorizontalPositionError: be32(p, 50),
		EstimatedVerticalPositionError:   be32(p, 54),
		EstimatedTimeError:               be32(p, 58),
		EstimatedHorizontalVelocityError: be16(p, 62),
		ClockBias:          int32(be32(p, 64)),
		ClockBiasError:     be32(p, 68),
		ClockDrift:         int32(be32(p, 72)),
		ClockDriftError:    be32(p, 76),
		Distance:           be32(p, 80),
		DistanceError:      be16(p, 84),
		HeadingError:       be16(p, 86),
		NumberOfSVsInFix:   p[88],
		HDOP:               p[89],
		AdditionalModeInfo: p[90],
	}

	msg.ID = message.GeodeticNavigationDataID
	msg.GeodeticNavigationData = g
	return true
}
