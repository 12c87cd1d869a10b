package payload

import (
	"strings"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

// scanWiFi extracts the S, P, T and H tags from a semicolon-delimited field
// list. Rules:
//   - a segment counts only when terminated by an unescaped ';'
//   - the first segment may carry leading text (a "WIFI:" scheme in any
//     case, a label, whitespace); its tag starts at the first key that is
//     followed by ':' and not preceded by a letter
//   - any later segment is a tag when it starts with a key followed by ':'
//   - the first occurrence of a repeated key wins
//   - values are returned as written, escapes included
//
// A non-empty SSID is required for a match.
func scanWiFi(raw string) (model.WifiConfig, bool) {
	var ssid, password, security, hidden *string

	for i, seg := range splitTerminated(raw, ';') {
		if i == 0 {
			seg = seg[firstTag(seg):]
		}
		if len(seg) < 2 || seg[1] != ':' {
			continue
		}
		value := seg[2:]
		switch seg[0] {
		case 'S':
			setOnce(&ssid, value)
		case 'P':
			setOnce(&password, value)
		case 'T':
			setOnce(&security, value)
		case 'H':
			setOnce(&hidden, value)
		}
	}

	if ssid == nil || *ssid == "" {
		return model.WifiConfig{}, false
	}
	return model.WifiConfig{
		SSID:     *ssid,
		Password: password,
		Security: security,
		Hidden:   hidden,
	}, true
}

// firstTag returns the offset of the first key tag in seg, or 0 when there
// is none.
func firstTag(seg string) int {
	for j := 0; j+1 < len(seg); j++ {
		if seg[j+1] != ':' || !strings.ContainsRune("SPTH", rune(seg[j])) {
			continue
		}
		if j > 0 && isASCIILetter(seg[j-1]) {
			continue
		}
		return j
	}
	return 0
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// splitTerminated splits s on sep, honouring backslash escapes, and returns
// only the segments that were closed by a separator. Escape sequences are
// kept verbatim in the segments.
func splitTerminated(s string, sep byte) []string {
	var (
		segments []string
		start    int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // Skip the escaped byte.
		case sep:
			segments = append(segments, s[start:i])
			start = i + 1
		}
	}
	return segments
}

func setOnce(dst **string, value string) {
	if *dst == nil {
		v := value
		*dst = &v
	}
}
