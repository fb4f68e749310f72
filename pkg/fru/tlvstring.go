package fru

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// StringType is the type tag packed into the top two bits of a TLV
// string's prefix byte.
type StringType byte

// String types as defined by the platform's type/length byte.
const (
	TypeBinary         StringType = 0
	TypeBCDPlus        StringType = 1
	TypeSixBitASCII    StringType = 2
	TypeASCIIOrUnicode StringType = 3
)

// englishLangCode is the IPMI language code value meaning English.
const englishLangCode = 25

// terminatorByte marks the end of a variable string array.
const terminatorByte = 0xC1

// emptyStringByte is what an empty-payload string encodes to.
const emptyStringByte = 0xC0

// maxStringPayload is the largest payload length the 6-bit length field
// can carry.
const maxStringPayload = 63

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func decodeUTF16LE(raw []byte) ([]byte, error) {
	out, _, err := transform.Bytes(utf16le.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("decoding unicode string: %w", err)
	}
	return out, nil
}

func encodeUTF16LE(text []byte) ([]byte, error) {
	out, _, err := transform.Bytes(utf16le.NewEncoder(), text)
	if err != nil {
		return nil, fmt.Errorf("encoding unicode string: %w", err)
	}
	return out, nil
}

// DecodeTLV decodes one TLV string at the start of data. unicodeHint
// selects the language-aware interpretation of type-3 strings: when the
// wire type is TypeASCIIOrUnicode and unicodeHint is true, the payload
// bytes are interpreted as little-endian UTF-16 instead of ASCII-8. It
// returns the decoded type, the decoded payload bytes and the number of
// bytes consumed (prefix byte plus raw data).
func DecodeTLV(data []byte, unicodeHint bool) (typ StringType, payload []byte, consumed int, err error) {
	if len(data) == 0 {
		return 0, nil, 0, newErr("DecodeTLV", CodeBadFormat, "truncated TLV string: no prefix byte")
	}
	prefix := data[0]
	if prefix == terminatorByte {
		return 0, nil, 0, newErr("DecodeTLV", CodeBadFormat, "unexpected end-of-list marker")
	}
	typ = StringType(prefix >> 6)
	length := int(prefix & 0x3f)
	if len(data) < 1+length {
		return 0, nil, 0, newErr("DecodeTLV", CodeBadFormat,
			"truncated TLV string: declared length %d exceeds remaining %d bytes", length, len(data)-1)
	}
	raw := data[1 : 1+length]
	consumed = 1 + length

	switch typ {
	case TypeBinary:
		payload = append([]byte(nil), raw...)
	case TypeBCDPlus:
		payload = decodeBCDPlus(raw)
	case TypeSixBitASCII:
		payload = decodeSixBitASCII(raw)
	case TypeASCIIOrUnicode:
		if unicodeHint {
			payload, err = decodeUTF16LE(raw)
			if err != nil {
				return 0, nil, 0, wrapErr("DecodeTLV", CodeBadFormat, err, "decoding unicode string")
			}
		} else {
			payload = append([]byte(nil), raw...)
		}
	default:
		return 0, nil, 0, newErr("DecodeTLV", CodeBadFormat, "impossible string type %d", typ)
	}
	return typ, payload, consumed, nil
}

// EncodeTLV encodes one TLV string. A payload with length 0 always
// encodes to the single byte 0xC0, regardless of typ. Payloads longer
// than 63 bytes after encoding are silently truncated to the protocol
// maximum, per the capacity rules in the error handling design.
func EncodeTLV(typ StringType, payload []byte, unicodeHint bool) ([]byte, error) {
	if len(payload) == 0 {
		return []byte{emptyStringByte}, nil
	}

	var raw []byte
	var err error
	switch typ {
	case TypeBinary:
		raw = payload
	case TypeBCDPlus:
		raw, err = encodeBCDPlus(payload)
	case TypeSixBitASCII:
		raw, err = encodeSixBitASCII(payload)
	case TypeASCIIOrUnicode:
		if unicodeHint {
			raw, err = encodeUTF16LE(payload)
		} else {
			raw = payload
		}
	default:
		return nil, newErr("EncodeTLV", CodeInvalidArgument, "unknown string type %d", typ)
	}
	if err != nil {
		return nil, wrapErr("EncodeTLV", CodeInvalidArgument, err, "encoding string")
	}

	if len(raw) > maxStringPayload {
		raw = raw[:maxStringPayload]
	}
	out := make([]byte, 1+len(raw))
	out[0] = byte(typ)<<6 | byte(len(raw))
	copy(out[1:], raw)
	return out, nil
}

func bcdDigit(n byte) byte {
	switch {
	case n <= 9:
		return '0' + n
	case n == 0xa:
		return ' '
	case n == 0xb:
		return '-'
	case n == 0xc:
		return '.'
	default:
		return ' '
	}
}

func decodeBCDPlus(raw []byte) []byte {
	out := make([]byte, 0, len(raw)*2)
	for _, b := range raw {
		out = append(out, bcdDigit(b&0x0f), bcdDigit(b>>4))
	}
	return out
}

func bcdNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c == ' ':
		return 0xa, nil
	case c == '-':
		return 0xb, nil
	case c == '.':
		return 0xc, nil
	default:
		return 0, fmt.Errorf("character %q not representable in BCD-plus", c)
	}
}

func encodeBCDPlus(text []byte) ([]byte, error) {
	out := make([]byte, (len(text)+1)/2)
	for i := 0; i < len(text); i += 2 {
		lo, err := bcdNibble(text[i])
		if err != nil {
			return nil, err
		}
		hi := byte(0xa)
		if i+1 < len(text) {
			hi, err = bcdNibble(text[i+1])
			if err != nil {
				return nil, err
			}
		}
		out[i/2] = lo | hi<<4
	}
	return out, nil
}

// decodeSixBitASCII unpacks 6-bit-ASCII characters (offset +0x20 from
// the packed 6-bit value) from a packed byte stream, 4 characters per 3
// bytes.
func decodeSixBitASCII(raw []byte) []byte {
	nchars := len(raw) * 8 / 6
	out := make([]byte, nchars)
	var bitBuf uint32
	var bitCount, bi, oi int
	for oi < nchars {
		for bitCount < 6 && bi < len(raw) {
			bitBuf |= uint32(raw[bi]) << bitCount
			bitCount += 8
			bi++
		}
		out[oi] = byte(bitBuf&0x3f) + 0x20
		bitBuf >>= 6
		bitCount -= 6
		oi++
	}
	return out
}

// encodeSixBitASCII packs text into 6-bit-ASCII, 3 bytes per 4 characters.
func encodeSixBitASCII(text []byte) ([]byte, error) {
	out := make([]byte, (len(text)*6+7)/8)
	var bitBuf uint32
	var bitCount, bi int
	for _, c := range text {
		if c < 0x20 || c > 0x5f {
			return nil, fmt.Errorf("character %q not representable in 6-bit ASCII", c)
		}
		bitBuf |= uint32(c-0x20) << bitCount
		bitCount += 6
		for bitCount >= 8 {
			out[bi] = byte(bitBuf & 0xff)
			bitBuf >>= 8
			bitCount -= 8
			bi++
		}
	}
	if bitCount > 0 && bi < len(out) {
		out[bi] = byte(bitBuf & 0xff)
	}
	return out, nil
}
