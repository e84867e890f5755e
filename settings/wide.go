package settings

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeWide converts s to UTF-16LE, the string encoding of the driver record.
func EncodeWide(s string) ([]byte, error) {
	return utf16le.NewEncoder().Bytes([]byte(s))
}

// DecodeWide converts a NUL padded UTF-16LE buffer back to a string.
func DecodeWide(b []byte) (string, error) {
	end := len(b) &^ 1
	for i := 0; i+1 < len(b); i += 2 {
		if binary.LittleEndian.Uint16(b[i:]) == 0 {
			end = i
			break
		}
	}
	out, err := utf16le.NewDecoder().Bytes(b[:end])
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// WideLen reports the length of s in UTF-16 code units.
func WideLen(s string) int {
	b, err := EncodeWide(s)
	if err != nil {
		return len(s)
	}
	return len(b) / 2
}
