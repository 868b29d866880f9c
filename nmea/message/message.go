// Package message defines the NMEA sentence records: the fixed-point decimal
// types, UTC time and date, the per-sentence body structs, and the tagged
// union that the parser fills in and delivers to a listener.
//
// Every body lives by value inside Message, selected by ID - there is no
// dynamic allocation and no shared overlapping storage to misuse the way the
// original C++ union did. Unfilled fields are always the all-ones sentinel
// described in the spec.
package message

// Message IDs. These match the wire sentence tags: GPGGA -> GGA and so on.
const (
	GGA     = 1
	GLL     = 2
	GSA     = 3
	GSV     = 4
	MSS     = 5
	RMC     = 6
	VTG     = 7
	ZDA     = 8
	PSRF150 = 10
	PSRF151 = 11
	PSRF152 = 12
	PSRF154 = 13
)

// SentinelByte is the all-ones sentinel for single-character and small
// integer fields.
const SentinelByte byte = 0xFF

// SentinelInt32 is the all-ones sentinel for signed 32-bit integer fields.
const SentinelInt32 int32 = -1

// SentinelUint16 is the all-ones sentinel for unsigned 16-bit fields.
const SentinelUint16 uint16 = 0xFFFF

// SentinelUint32 is the all-ones sentinel for unsigned 32-bit fields.
const SentinelUint32 uint32 = 0xFFFFFFFF

// D16_16 is a signed-16.unsigned-16 fixed-point decimal scaled to 4
// fractional digits, e.g. the value 0.4560 is stored as {0, 4560}.
type D16_16 struct {
	IntegerPart    int16
	FractionalPart uint16
}

// D16_8 is a signed-16.unsigned-8 fixed-point decimal scaled to 2 fractional
// digits.
type D16_8 struct {
	IntegerPart    int16
	FractionalPart uint8
}

// D8_8 is a signed-8.unsigned-8 fixed-point decimal scaled to 2 fractional
// digits.
type D8_8 struct {
	IntegerPart    int8
	FractionalPart uint8
}

var sentinelD16_16 = D16_16{IntegerPart: -1, FractionalPart: 0xFFFF}
var sentinelD16_8 = D16_8{IntegerPart: -1, FractionalPart: 0xFF}
var sentinelD8_8 = D8_8{IntegerPart: -1, FractionalPart: 0xFF}

// UTCTime is hour:minute:second.millisecond, with 0xFF/0xFFFF meaning
// absent.
type UTCTime struct {
	Hour        uint8
	Minute      uint8
	Second      uint8
	Millisecond uint16
}

var sentinelUTCTime = UTCTime{Hour: 0xFF, Minute: 0xFF, Second: 0xFF, Millisecond: 0xFFFF}

// Date is day/month/two-digit-year.
type Date struct {
	Day   uint8
	Month uint8
	Year  uint8
}

var sentinelDate = Date{Day: 0xFF, Month: 0xFF, Year: 0xFF}

// GGA is the fix data sentence.
type GGA struct {
	UTCTime              UTCTime
	Latitude             D16_16
	NSIndicator          byte
	Longitude            D16_16
	EWIndicator          byte
	PositionFixIndicator byte
	SatellitesUsed       byte
	HDOP                 D8_8
	MSLAltitude          D8_8
	Units                byte
	GeoidSeparation      D8_8
	Units2               byte
	AgeOfDiffCorr        uint16
	DiffRefStationID     uint16
}

func (m *GGA) reset() {
	*m = GGA{
		UTCTime: sentinelUTCTime, Latitude: sentinelD16_16, NSIndicator: SentinelByte,
		Longitude: sentinelD16_16, EWIndicator: SentinelByte, PositionFixIndicator: SentinelByte,
		SatellitesUsed: SentinelByte, HDOP: sentinelD8_8, MSLAltitude: sentinelD8_8,
		Units: SentinelByte, GeoidSeparation: sentinelD8_8, Units2: SentinelByte,
		AgeOfDiffCorr: SentinelUint16, DiffRefStationID: SentinelUint16,
	}
}

// GLL is the geographic position sentence.
type GLL struct {
	Latitude    D16_16
	NSIndicator byte
	Longitude   D16_16
	EWIndicator byte
	UTCTime     UTCTime
	Status      byte
	Mode        byte
}

func (m *GLL) reset() {
	*m = GLL{
		Latitude: sentinelD16_16, NSIndicator: SentinelByte, Longitude: sentinelD16_16,
		EWIndicator: SentinelByte, UTCTime: sentinelUTCTime, Status: SentinelByte, Mode: SentinelByte,
	}
}

// GSA is the active-satellites / DOP sentence.
type GSA struct {
	Mode1          byte
	Mode2          byte
	SatelliteUsed  [12]byte
	PDOP, HDOP, VDOP D8_8
}

func (m *GSA) reset() {
	*m = GSA{Mode1: SentinelByte, Mode2: SentinelByte, PDOP: sentinelD8_8, HDOP: sentinelD8_8, VDOP: sentinelD8_8}
	for i := range m.SatelliteUsed {
		m.SatelliteUsed[i] = SentinelByte
	}
}

// Satellite is one entry in a GSV sentence's satellite list.
type Satellite struct {
	ID        byte
	Elevation byte
	Azimuth   int16
	SNR       byte
}

var sentinelSatellite = Satellite{ID: SentinelByte, Elevation: SentinelByte, Azimuth: -1, SNR: SentinelByte}

// GSV is the satellites-in-view sentence.
type GSV struct {
	NumberOfMessages byte
	MessageNumber    byte
	SatellitesInView byte
	Satellites       [4]Satellite
}

func (m *GSV) reset() {
	*m = GSV{NumberOfMessages: SentinelByte, MessageNumber: SentinelByte, SatellitesInView: SentinelByte}
	for i := range m.Satellites {
		m.Satellites[i] = sentinelSatellite
	}
}

// MSS is the beacon receiver status sentence.
type MSS struct {
	SignalStrength     byte
	SignalToNoiseRatio byte
	BeaconFrequency    D16_8
	BeaconBitRate      byte
	ChannelNumber      byte
}

func (m *MSS) reset() {
	*m = MSS{SignalStrength: SentinelByte, SignalToNoiseRatio: SentinelByte, BeaconFrequency: sentinelD16_8,
		BeaconBitRate: SentinelByte, ChannelNumber: SentinelByte}
}

// RMC is the minimum recommended navigation data sentence.
type RMC struct {
	UTCTime           UTCTime
	Status            byte
	Latitude          D16_16
	NSIndicator       byte
	Longitude         D16_16
	EWIndicator       byte
	SpeedOverGround   D16_8
	CourseOverGround  D16_8
	Date              Date
	MagneticVariation D16_8
	EWIndicator2      byte
	Mode              byte
}

func (m *RMC) reset() {
	*m = RMC{
		UTCTime: sentinelUTCTime, Status: SentinelByte, Latitude: sentinelD16_16, NSIndicator: SentinelByte,
		Longitude: sentinelD16_16, EWIndicator: SentinelByte, SpeedOverGround: sentinelD16_8,
		CourseOverGround: sentinelD16_8, Date: sentinelDate, MagneticVariation: sentinelD16_8,
		EWIndicator2: SentinelByte, Mode: SentinelByte,
	}
}

// VTG is the velocity/course sentence.
type VTG struct {
	Course     D16_8
	Reference  byte
	Course2    D16_8
	Reference2 byte
	Speed      D8_8
	Units      byte
	Speed2     D8_8
	Units2     byte
	Mode       byte
}

func (m *VTG) reset() {
	*m = VTG{
		Course: sentinelD16_8, Reference: SentinelByte, Course2: sentinelD16_8, Reference2: SentinelByte,
		Speed: sentinelD8_8, Units: SentinelByte, Speed2: sentinelD8_8, Units2: SentinelByte, Mode: SentinelByte,
	}
}

// ZDA is the date/time sentence.
type ZDA struct {
	UTCTime          UTCTime
	Day              byte
	Month            byte
	Year             int32
	LocalZoneHour    int32
	LocalZoneMinutes int32
}

func (m *ZDA) reset() {
	*m = ZDA{UTCTime: sentinelUTCTime, Day: SentinelByte, Month: SentinelByte, Year: SentinelInt32,
		LocalZoneHour: SentinelInt32, LocalZoneMinutes: SentinelInt32}
}

// PSRF150 (OkToSend) reports whether the receiver is ready to be
// reconfigured.
type PSRF150 struct {
	OkToSend byte
}

func (m *PSRF150) reset() { *m = PSRF150{OkToSend: SentinelByte} }

// PSRF151 (GPS Data / Ephemeris Extension Message) carries the ephemeris
// request mask.
type PSRF151 struct {
	GPSTimeValidFlag int32
	GPSWeek          int32
	GPSTOW           int32
	EphReqMask       uint32
}

func (m *PSRF151) reset() {
	*m = PSRF151{GPSTimeValidFlag: SentinelInt32, GPSWeek: SentinelInt32, GPSTOW: SentinelInt32, EphReqMask: SentinelUint32}
}

// PSRF152 (Ephemeris Extension Information) carries per-satellite validity
// and health bitmasks.
type PSRF152 struct {
	SatPosValidityFlag uint32
	SatClkValidityFlag uint32
	SatHealthFlag      uint32
}

func (m *PSRF152) reset() {
	*m = PSRF152{SatPosValidityFlag: SentinelUint32, SatClkValidityFlag: SentinelUint32, SatHealthFlag: SentinelUint32}
}

// PSRF154 (Ephemeris Extension Acknowledgment) carries the ID being
// acknowledged.
type PSRF154 struct {
	AckID int32
}

func (m *PSRF154) reset() { *m = PSRF154{AckID: SentinelInt32} }

// Message is the tagged union delivered to a Listener: ID selects which of
// the embedded bodies is meaningful.
type Message struct {
	ID int

	GGA     GGA
	GLL     GLL
	GSA     GSA
	GSV     GSV
	MSS     MSS
	RMC     RMC
	VTG     VTG
	ZDA     ZDA
	PSRF150 PSRF150
	PSRF151 PSRF151
	PSRF152 PSRF152
	PSRF154 PSRF154
}

// Reset sets the message's ID and resets the corresponding body to its
// all-ones sentinel pattern, ready for the parser to fill in.  It reports
// false if id is not a recognised message type.
func (m *Message) Reset(id int) bool {
	switch id {
	case GGA:
		m.GGA.reset()
	case GLL:
		m.GLL.reset()
	case GSA:
		m.GSA.reset()
	case GSV:
		m.GSV.reset()
	case MSS:
		m.MSS.reset()
	case RMC:
		m.RMC.reset()
	case VTG:
		m.VTG.reset()
	case ZDA:
		m.ZDA.reset()
	case PSRF150:
		m.PSRF150.reset()
	case PSRF151:
		m.PSRF151.reset()
	case PSRF152:
		m.PSRF152.reset()
	case PSRF154:
		m.PSRF154.reset()
	default:
		return false
	}
	m.ID = id
	return true
}
