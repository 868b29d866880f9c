package command

import (
	"bytes"
	"testing"
)

type collectingSink struct {
	bytes.Buffer
}

func (s *collectingSink) Write(b byte)         { s.Buffer.WriteByte(b) }
func (s *collectingSink) WriteBuffer(b []byte) { s.Buffer.Write(b) }

func sumMod2To15(body []byte) uint16 {
	var sum uint16
	for _, b := range body {
		sum = (sum + uint16(b)) & 0x7FFF
	}
	return sum
}

func TestSetBinarySerialPortFraming(t *testing.T) {
	sink := &collectingSink{}
	SetBinarySerialPort(sink, 38400, 8, 1, 0)

	body := []byte{134, 0, 0, 0x96, 0, 8, 1, 0, 0}
	want := append([]byte{0xA0, 0xA2, 0, byte(len(body))}, body...)
	sum := sumMod2To15(body)
	want = append(want, byte(sum>>8), byte(sum), 0xB0, 0xB3)

	if got := sink.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("want % X got % X", want, got)
	}
}

func TestSetProtocolFraming(t *testing.T) {
	sink := &collectingSink{}
	SetProtocol(sink, ProtocolNMEA)

	body := []byte{135, byte(ProtocolNMEA)}
	want := append([]byte{0xA0, 0xA2, 0, byte(len(body))}, body...)
	sum := sumMod2To15(body)
	want = append(want, byte(sum>>8), byte(sum), 0xB0, 0xB3)

	if got := sink.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("want % X got % X", want, got)
	}
}

func TestSetMessageRateFraming(t *testing.T) {
	sink := &collectingSink{}
	SetMessageRate(sink, 0, 41, 1)

	body := []byte{166, 0, 41, 1, 0, 0, 0, 0}
	want := append([]byte{0xA0, 0xA2, 0, byte(len(body))}, body...)
	sum := sumMod2To15(body)
	want = append(want, byte(sum>>8), byte(sum), 0xB0, 0xB3)

	if got := sink.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("want % X got % X", want, got)
	}
}
