package buffer

// This file holds the field decoders that turn the bytes of the currently
// staged token into primitive values.  They all operate on data[0:pos] - the
// token window - and never touch the byte source.  The decoding rules
// (optional leading '-', stop at the first non-digit, pad missing digits
// with trailing zeros) are the same ones the original C++ template
// functions implement; see original_source/src/GPS/util.h.

func isDigit(b int) bool {
	return b >= '0' && b <= '9'
}

// DecodeInt16 decodes a signed integer run, leading '-' permitted, stopping
// at the first non-digit.
func (s *Staged) DecodeInt16() int16 {
	return int16(s.decodeSignedInt())
}

// DecodeInt32 decodes a signed integer run the same way as DecodeInt16 but
// returns a wider result.
func (s *Staged) DecodeInt32() int32 {
	return int32(s.decodeSignedInt())
}

func (s *Staged) decodeSignedInt() int64 {
	n := s.TokenLength()
	var i int
	sign := int64(1)
	if i < n && s.data[i] == '-' {
		sign = -1
		i++
	}
	var t int64
	for ; i < n && isDigit(int(s.data[i])); i++ {
		t = t*10 + int64(s.data[i]-'0')
	}
	return t * sign
}

// DecodeIntegerN decodes exactly width unsigned digits.  If fewer digits are
// present in the token than width, the missing trailing digits are treated
// as zero - so "678" read with width 4 yields 6780, not 678.
func (s *Staged) DecodeIntegerN(offset, width int) uint32 {
	n := s.TokenLength()
	var t uint32
	digits := 0
	i := offset
	for ; i < n && digits < width && isDigit(int(s.data[i])); i++ {
		t = t*10 + uint32(s.data[i]-'0')
		digits++
	}
	for ; digits < width; digits++ {
		t *= 10
	}
	return t
}

// DecodeDecimal reads an optional sign, a run of integer digits, an optional
// '.', and up to fracDigits fractional digits.  Missing fractional digits
// are padded with trailing zeros to reach fracDigits; extra digits beyond
// fracDigits are discarded.  It returns the integer part and the fractional
// part scaled to fracDigits decimal digits.
func (s *Staged) DecodeDecimal(fracDigits int) (integerPart int32, fractionalPart uint32) {
	n := s.TokenLength()
	var i int
	sign := int32(1)
	if i < n && s.data[i] == '-' {
		sign = -1
		i++
	}

	var intPart int32
	for ; i < n && s.data[i] != '.'; i++ {
		if isDigit(int(s.data[i])) {
			intPart = intPart*10 + int32(s.data[i]-'0')
		}
	}
	integerPart = intPart * sign

	if i < n && s.data[i] == '.' {
		i++
		var frac uint32
		fc := 0
		for ; i < n && fc < fracDigits && isDigit(int(s.data[i])); i++ {
			frac = frac*10 + uint32(s.data[i]-'0')
			fc++
		}
		for ; fc < fracDigits; fc++ {
			frac *= 10
		}
		fractionalPart = frac
	}

	return integerPart, fractionalPart
}

// DecodeUTCTime decodes an HHMMSS[.sss] field.  The first six characters
// are three fixed-width-2 fields; if a '.' follows, the next three
// characters are the millisecond field, zero-padded to width 3.  If there's
// no '.', msec is 0.
func (s *Staged) DecodeUTCTime() (hour, minute, second uint8, msec uint16) {
	hour = uint8(s.DecodeIntegerN(0, 2))
	minute = uint8(s.DecodeIntegerN(2, 2))
	second = uint8(s.DecodeIntegerN(4, 2))

	n := s.TokenLength()
	if n > 6 && s.data[6] == '.' {
		msec = uint16(s.DecodeIntegerN(7, 3))
	}
	return hour, minute, second, msec
}

// DecodeDate decodes a DDMMYY field: three fixed-width-2 fields at offsets
// 0, 2 and 4.
func (s *Staged) DecodeDate() (day, month, year uint8) {
	day = uint8(s.DecodeIntegerN(0, 2))
	month = uint8(s.DecodeIntegerN(2, 2))
	year = uint8(s.DecodeIntegerN(4, 2))
	return day, month, year
}

func hexValue(b byte) (uint32, bool) {
	switch {
	case b >= '0' && b <= '9':
		return uint32(b - '0'), true
	case b >= 'a' && b <= 'f':
		return uint32(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return uint32(b-'A') + 10, true
	default:
		return 0, false
	}
}

// DecodeHex8 decodes a token of the form "0x" followed by exactly 8 hex
// digits into a 32-bit value.  The result matches the textual hex number
// regardless of host byte order - there is no byte-array trick needed in Go
// the way the original C++ used one to control in-memory layout.
func (s *Staged) DecodeHex8() (uint32, bool) {
	n := s.TokenLength()
	if n < 10 {
		return 0, false
	}
	var v uint32
	for i := 2; i < 10; i++ {
		d, ok := hexValue(s.data[i])
		if !ok {
			return 0, false
		}
		v = v<<4 | d
	}
	return v, true
}

// DecodeChecksum decodes a "*HH" token into the two-hex-digit checksum
// value.
func (s *Staged) DecodeChecksum() (uint8, bool) {
	n := s.TokenLength()
	if n < 3 {
		return 0, false
	}
	hi, ok1 := hexValue(s.data[1])
	lo, ok2 := hexValue(s.data[2])
	if !ok1 || !ok2 {
		return 0, false
	}
	return uint8(hi<<4 | lo), true
}

// CalcChecksum XORs every byte of the current token into base and returns
// the result.
func (s *Staged) CalcChecksum(base byte) byte {
	c := base
	n := s.TokenLength()
	for i := 0; i < n; i++ {
		c ^= s.data[i]
	}
	return c
}
