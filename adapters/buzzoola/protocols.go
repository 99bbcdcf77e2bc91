package buzzoola

import (
	"math"
	"strconv"
	"strings"

	"github.com/prebid/openrtb/v20/adcom1"
)

// protocolNames are the protocol names hosts may send. The index of a name is its code.
var protocolNames = [...]string{
	"VAST 1.0",
	"VAST 2.0",
	"VAST 3.0",
	"VAST 1.0 Wrapper",
	"VAST 2.0 Wrapper",
	"VAST 3.0 Wrapper",
	"VAST 4.0",
	"VAST 4.0 Wrapper",
	"DAAST 1.0",
	"DAAST 1.0 Wrapper",
}

// protocolCode resolves a protocol name, numeric string or number to its OpenRTB code.
func protocolCode(protocol any) (adcom1.MediaCreativeSubtype, bool) {
	switch value := protocol.(type) {
	case string:
		for code, name := range protocolNames {
			if name == value {
				return adcom1.MediaCreativeSubtype(code), true
			}
		}
		return leadingInteger(value)
	case float64:
		if value != math.Trunc(value) || math.IsInf(value, 0) {
			return 0, false
		}
		return adcom1.MediaCreativeSubtype(value), true
	case int:
		return adcom1.MediaCreativeSubtype(value), true
	case int64:
		return adcom1.MediaCreativeSubtype(value), true
	default:
		return 0, false
	}
}

// leadingInteger reads the integer a string starts with, after optional whitespace
// and sign, ignoring whatever follows it: "7abc" and "3.0" resolve to 7 and 3.
func leadingInteger(text string) (adcom1.MediaCreativeSubtype, bool) {
	text = strings.TrimLeft(text, " \t\n\r")
	end := 0
	if end < len(text) && (text[end] == '+' || text[end] == '-') {
		end++
	}
	digits := end
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	code, err := strconv.ParseInt(text[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return adcom1.MediaCreativeSubtype(code), true
}

// protocolCodes maps every protocol and drops the ones that do not resolve.
func protocolCodes(protocols []any) []adcom1.MediaCreativeSubtype {
	codes := make([]adcom1.MediaCreativeSubtype, 0, len(protocols))
	for _, protocol := range protocols {
		if code, ok := protocolCode(protocol); ok {
			codes = append(codes, code)
		}
	}
	return codes
}
