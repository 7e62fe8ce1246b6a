package importer

// reader.go handles byte-level hygiene for ingested files before any
// parsing happens:
//
//   - UTF-8 BOM removal (0xEF 0xBB 0xBF, common in Windows exports)
//   - legacy code-page decoding (Windows-1250/1251 exports from older
//     warehouse systems)
//   - replacement of invalid UTF-8 bytes so downstream string handling
//     never sees broken sequences

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText converts raw file bytes to clean UTF-8 text according to
// the configured encoding. The empty string and "utf-8" mean the bytes
// are already UTF-8 (invalid sequences are sanitized); "windows-1250"
// and "windows-1251" are transcoded via their code pages.
func decodeText(data []byte, encoding string) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return sanitizeUTF8(data), nil
	case "windows-1250", "cp1250":
		return decodeCharmap(data, charmap.Windows1250)
	case "windows-1251", "cp1251":
		return decodeCharmap(data, charmap.Windows1251)
	default:
		return "", fmt.Errorf("%w: unknown encoding %q", ErrUnsupportedFileKind, encoding)
	}
}

func decodeCharmap(data []byte, cm *charmap.Charmap) (string, error) {
	decoded, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", cm, err)
	}
	return string(decoded), nil
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode
// replacement character. Valid input is returned without copying.
func sanitizeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			data = data[1:]
		} else {
			b.Write(data[:size])
			data = data[size:]
		}
	}
	return b.String()
}
