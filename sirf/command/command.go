// Package command builds the three outgoing SiRF binary input messages this
// library formats: Set Binary Serial Port (134), Set Protocol (135), and
// Set Message Rate (166). Framing and the sum-mod-2^15 checksum follow the
// same layout frame.Framer expects on the way in.
package command

import "github.com/goblimey/go-gpswire/buffer"

// Protocol selects the wire protocol a SetProtocol message switches the
// receiver to.
type Protocol byte

const (
	ProtocolNull      Protocol = 0
	ProtocolSiRFBinary Protocol = 1
	ProtocolNMEA      Protocol = 2
	ProtocolASCII     Protocol = 3
	ProtocolRTCM      Protocol = 4
	ProtocolUser      Protocol = 5
	ProtocolSiRFLoc   Protocol = 6
	ProtocolStatistic Protocol = 7
)

func writeFrame(sink buffer.ByteSink, body []byte) {
	length := len(body)
	sink.Write(0xA0)
	sink.Write(0xA2)
	sink.Write(byte(length >> 8))
	sink.Write(byte(length))
	sink.WriteBuffer(body)

	var sum uint16
	for _, b := range body {
		sum = (sum + uint16(b)) & 0x7FFF
	}
	sink.Write(byte(sum >> 8))
	sink.Write(byte(sum))

	sink.Write(0xB0)
	sink.Write(0xB3)
}

func be32(v uint32) [4]byte {
	return [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// SetBinarySerialPort formats message id 134: configure the receiver's own
// serial port.
func SetBinarySerialPort(sink buffer.ByteSink, bitRate uint32, dataBits, stopBit, parity byte) {
	rate := be32(bitRate)
	body := []byte{134, rate[0], rate[1], rate[2], rate[3], dataBits, stopBit, parity, 0}
	writeFrame(sink, body)
}

// SetProtocol formats message id 135: switch the receiver's output
// protocol.
func SetProtocol(sink buffer.ByteSink, protocol Protocol) {
	writeFrame(sink, []byte{135, byte(protocol)})
}

// SetMessageRate formats message id 166: request a given message id be
// emitted at updateRate (0 disables it). mode is the receiver's own rate
// control mode byte.
func SetMessageRate(sink buffer.ByteSink, mode, messageIDToBeSet, updateRate byte) {
	body := []byte{166, mode, messageIDToBeSet, updateRate, 0, 0, 0, 0}
	writeFrame(sink, body)
}
