package parser

import (
	"github.com/goblimey/go-gpswire/buffer"
	"github.com/goblimey/go-gpswire/nmea/message"
	"github.com/goblimey/go-gpswire/nmea/token"
)

// fieldSpec describes one field slot of a sentence sub-machine: which token
// kinds it accepts, how to decode and store it, whether it may legally be
// the first of a run of omitted trailing fields, and (for GSV's repeating
// satellite groups) a hook run after a successful assignment that can force
// an early jump to the checksum-verification state.
type fieldSpec struct {
	accept      func(token.Kind) bool
	assign      func(p *Parser, tok token.Token)
	optional    bool
	afterAssign func(p *Parser) bool
}

func acceptNumOrFlt(k token.Kind) bool { return k == token.Num || k == token.FltNum }
func acceptNum(k token.Kind) bool      { return k == token.Num }
func acceptChar(k token.Kind) bool     { return k == token.Char }
func acceptHex8(k token.Kind) bool     { return k == token.Hex8 }

func decodeUTCTime(b *buffer.Staged) message.UTCTime {
	h, m, s, ms := b.DecodeUTCTime()
	return message.UTCTime{Hour: h, Minute: m, Second: s, Millisecond: ms}
}

func decodeDate(b *buffer.Staged) message.Date {
	d, mo, y := b.DecodeDate()
	return message.Date{Day: d, Month: mo, Year: y}
}

func decodeD1616(b *buffer.Staged) message.D16_16 {
	i, f := b.DecodeDecimal(4)
	return message.D16_16{IntegerPart: int16(i), FractionalPart: uint16(f)}
}

func decodeD168(b *buffer.Staged) message.D16_8 {
	i, f := b.DecodeDecimal(2)
	return message.D16_8{IntegerPart: int16(i), FractionalPart: uint8(f)}
}

func decodeD88(b *buffer.Staged) message.D8_8 {
	i, f := b.DecodeDecimal(2)
	return message.D8_8{IntegerPart: int8(i), FractionalPart: uint8(f)}
}

func decodeHex8(b *buffer.Staged) uint32 {
	v, _ := b.DecodeHex8()
	return v
}

var ggaFields = []fieldSpec{
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GGA.UTCTime = decodeUTCTime(p.buf) }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GGA.Latitude = decodeD1616(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.GGA.NSIndicator = t.Char }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GGA.Longitude = decodeD1616(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.GGA.EWIndicator = t.Char }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GGA.PositionFixIndicator = byte(p.buf.DecodeInt16()) }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GGA.SatellitesUsed = byte(p.buf.DecodeInt16()) }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GGA.HDOP = decodeD88(p.buf) }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GGA.MSLAltitude = decodeD88(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.GGA.Units = t.Char }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GGA.GeoidSeparation = decodeD88(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.GGA.Units2 = t.Char }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GGA.AgeOfDiffCorr = uint16(p.buf.DecodeInt16()) }, optional: true},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GGA.DiffRefStationID = uint16(p.buf.DecodeInt16()) }, optional: true},
}

var gllFields = []fieldSpec{
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GLL.Latitude = decodeD1616(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.GLL.NSIndicator = t.Char }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GLL.Longitude = decodeD1616(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.GLL.EWIndicator = t.Char }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GLL.UTCTime = decodeUTCTime(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.GLL.Status = t.Char }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.GLL.Mode = t.Char }, optional: true},
}

func buildGSAFields() []fieldSpec {
	fields := make([]fieldSpec, 0, 17)
	fields = append(fields,
		fieldSpec{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.GSA.Mode1 = t.Char }},
		fieldSpec{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GSA.Mode2 = byte(p.buf.DecodeInt16()) }},
	)
	for i := 0; i < 12; i++ {
		slot := i
		fields = append(fields, fieldSpec{
			accept: acceptNum,
			assign: func(p *Parser, _ token.Token) { p.msg.GSA.SatelliteUsed[slot] = byte(p.buf.DecodeInt16()) },
		})
	}
	fields = append(fields,
		fieldSpec{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GSA.PDOP = decodeD88(p.buf) }},
		fieldSpec{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GSA.HDOP = decodeD88(p.buf) }},
		fieldSpec{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.GSA.VDOP = decodeD88(p.buf) }},
	)
	return fields
}

var gsaFields = buildGSAFields()

// buildGSVFields builds the leading 3 count fields plus 4 repeating groups
// of (id, elevation, azimuth, snr). After each group's snr field, if the
// satellite count so far has reached SatellitesInView, the parser jumps
// straight to checksum verification - a partial final group needs no
// padding on the wire.
func buildGSVFields() []fieldSpec {
	fields := []fieldSpec{
		{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GSV.NumberOfMessages = byte(p.buf.DecodeInt16()) }},
		{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GSV.MessageNumber = byte(p.buf.DecodeInt16()) }},
		{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GSV.SatellitesInView = byte(p.buf.DecodeInt16()) }},
	}
	for slot := 0; slot < 4; slot++ {
		s := slot
		fields = append(fields,
			fieldSpec{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GSV.Satellites[s].ID = byte(p.buf.DecodeInt16()) }},
			fieldSpec{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GSV.Satellites[s].Elevation = byte(p.buf.DecodeInt16()) }},
			fieldSpec{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.GSV.Satellites[s].Azimuth = p.buf.DecodeInt16() }},
			fieldSpec{
				accept: acceptNum,
				assign: func(p *Parser, _ token.Token) { p.msg.GSV.Satellites[s].SNR = byte(p.buf.DecodeInt16()) },
				afterAssign: func(p *Parser) bool {
					msgNum := int(p.msg.GSV.MessageNumber)
					satsInView := int(p.msg.GSV.SatellitesInView)
					return 4*(msgNum-1)+s+1 >= satsInView
				},
			},
		)
	}
	return fields
}

var gsvFields = buildGSVFields()

var mssFields = []fieldSpec{
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.MSS.SignalStrength = byte(p.buf.DecodeInt16()) }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.MSS.SignalToNoiseRatio = byte(p.buf.DecodeInt16()) }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.MSS.BeaconFrequency = decodeD168(p.buf) }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.MSS.BeaconBitRate = byte(p.buf.DecodeInt16()) }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.MSS.ChannelNumber = byte(p.buf.DecodeInt16()) }, optional: true},
}

var rmcFields = []fieldSpec{
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.RMC.UTCTime = decodeUTCTime(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.RMC.Status = t.Char }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.RMC.Latitude = decodeD1616(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.RMC.NSIndicator = t.Char }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.RMC.Longitude = decodeD1616(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.RMC.EWIndicator = t.Char }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.RMC.SpeedOverGround = decodeD168(p.buf) }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.RMC.CourseOverGround = decodeD168(p.buf) }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.RMC.Date = decodeDate(p.buf) }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.RMC.MagneticVariation = decodeD168(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.RMC.EWIndicator2 = t.Char }, optional: true},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.RMC.Mode = t.Char }, optional: true},
}

var vtgFields = []fieldSpec{
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.VTG.Course = decodeD168(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.VTG.Reference = t.Char }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.VTG.Course2 = decodeD168(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.VTG.Reference2 = t.Char }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.VTG.Speed = decodeD88(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.VTG.Units = t.Char }},
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.VTG.Speed2 = decodeD88(p.buf) }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.VTG.Units2 = t.Char }},
	{accept: acceptChar, assign: func(p *Parser, t token.Token) { p.msg.VTG.Mode = t.Char }, optional: true},
}

var zdaFields = []fieldSpec{
	{accept: acceptNumOrFlt, assign: func(p *Parser, _ token.Token) { p.msg.ZDA.UTCTime = decodeUTCTime(p.buf) }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.ZDA.Day = byte(p.buf.DecodeInt16()) }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.ZDA.Month = byte(p.buf.DecodeInt16()) }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.ZDA.Year = p.buf.DecodeInt32() }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.ZDA.LocalZoneHour = p.buf.DecodeInt32() }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.ZDA.LocalZoneMinutes = p.buf.DecodeInt32() }},
}

var psrf150Fields = []fieldSpec{
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.PSRF150.OkToSend = byte(p.buf.DecodeInt16()) }},
}

var psrf151Fields = []fieldSpec{
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.PSRF151.GPSTimeValidFlag = p.buf.DecodeInt32() }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.PSRF151.GPSWeek = p.buf.DecodeInt32() }},
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.PSRF151.GPSTOW = p.buf.DecodeInt32() }},
	{accept: acceptHex8, assign: func(p *Parser, _ token.Token) { p.msg.PSRF151.EphReqMask = decodeHex8(p.buf) }},
}

var psrf152Fields = []fieldSpec{
	{accept: acceptHex8, assign: func(p *Parser, _ token.Token) { p.msg.PSRF152.SatPosValidityFlag = decodeHex8(p.buf) }},
	{accept: acceptHex8, assign: func(p *Parser, _ token.Token) { p.msg.PSRF152.SatClkValidityFlag = decodeHex8(p.buf) }},
	{accept: acceptHex8, assign: func(p *Parser, _ token.Token) { p.msg.PSRF152.SatHealthFlag = decodeHex8(p.buf) }},
}

var psrf154Fields = []fieldSpec{
	{accept: acceptNum, assign: func(p *Parser, _ token.Token) { p.msg.PSRF154.AckID = p.buf.DecodeInt32() }},
}

func fieldTableFor(id int) ([]fieldSpec, bool) {
	switch id {
	case message.GGA:
		return ggaFields, true
	case message.GLL:
		return gllFields, true
	case message.GSA:
		return gsaFields, true
	case message.GSV:
		return gsvFields, true
	case message.MSS:
		return mssFields, true
	case message.RMC:
		return rmcFields, true
	case message.VTG:
		return vtgFields, true
	case message.ZDA:
		return zdaFields, true
	case message.PSRF150:
		return psrf150Fields, true
	case message.PSRF151:
		return psrf151Fields, true
	case message.PSRF152:
		return psrf152Fields, true
	case message.PSRF154:
		return psrf154Fields, true
	default:
		return nil, false
	}
}
