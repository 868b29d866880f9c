// Package command builds the two outgoing NMEA configuration sentences a
// host sends to a SiRF receiver running in NMEA mode. Grounded on
// original_source/src/GPS/util.h's PortWrapper: a small running-checksum
// writer where the opening '$' is excluded from the XOR and every byte
// after it, including punctuation and the decimal digits of each integer,
// is folded in until the sentence is closed.
package command

import (
	"strconv"

	"github.com/goblimey/go-gpswire/buffer"
)

// builder accumulates one sentence into a ByteSink, XORing every byte
// written after the opening '$' into a running checksum.
type builder struct {
	sink     buffer.ByteSink
	checksum byte
}

func newBuilder(sink buffer.ByteSink) *builder {
	return &builder{sink: sink}
}

func (b *builder) begin(tag string) {
	b.sink.Write('$')
	b.writeString(tag)
}

func (b *builder) writeByte(c byte) {
	b.sink.Write(c)
	b.checksum ^= c
}

func (b *builder) writeString(s string) {
	for i := 0; i < len(s); i++ {
		b.writeByte(s[i])
	}
}

func (b *builder) comma() {
	b.writeByte(',')
}

func (b *builder) writeInt(v int) {
	b.writeString(strconv.Itoa(v))
}

func (b *builder) end() {
	b.sink.Write('*')
	hex := "0123456789ABCDEF"
	b.sink.Write(hex[b.checksum>>4])
	b.sink.Write(hex[b.checksum&0x0F])
	b.sink.Write('\r')
	b.sink.Write('\n')
}

// SetSerialPort writes
// "$PSRF100,<protocol>,<baud>,<dataBits>,<stopBits>,<parity>*HH\r\n" to
// sink. protocol is 0 for SiRF binary, 1 for NMEA, matching the receiver's
// own protocol numbering.
func SetSerialPort(sink buffer.ByteSink, protocol, baud, dataBits, stopBits, parity int) {
	b := newBuilder(sink)
	b.begin("PSRF100")
	b.comma()
	b.writeInt(protocol)
	b.comma()
	b.writeInt(baud)
	b.comma()
	b.writeInt(dataBits)
	b.comma()
	b.writeInt(stopBits)
	b.comma()
	b.writeInt(parity)
	b.end()
}

// DefaultSetSerialPort writes the command with the receiver's usual 8-N-1
// framing.
func DefaultSetSerialPort(sink buffer.ByteSink, protocol, baud int) {
	SetSerialPort(sink, protocol, baud, 8, 1, 0)
}

// QueryRateControl writes
// "$PSRF103,<messageType>,<mode>,<rate>,<checksumEnable>*HH\r\n" to sink,
// requesting the receiver emit (or stop emitting) a given sentence type at
// a given rate.
func QueryRateControl(sink buffer.ByteSink, messageType, mode, rate, checksumEnable int) {
	b := newBuilder(sink)
	b.begin("PSRF103")
	b.comma()
	b.writeInt(messageType)
	b.comma()
	b.writeInt(mode)
	b.comma()
	b.writeInt(rate)
	b.comma()
	b.writeInt(checksumEnable)
	b.end()
}
