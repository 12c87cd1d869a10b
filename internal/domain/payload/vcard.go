package payload

import (
	"strings"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

// scanVCard extracts display fields from a vCard block, line by line. The
// begin marker alone is enough for a match; every field may be absent.
//
// A line "GROUP.NAME;PARAMS:VALUE" contributes VALUE under NAME. Property
// names compare case-insensitively and the first occurrence wins.
func scanVCard(raw string) (model.ContactCard, bool) {
	if !strings.Contains(raw, vcardMarker) {
		return model.ContactCard{}, false
	}

	var card model.ContactCard
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		name, value, ok := splitProperty(line)
		if !ok {
			continue
		}
		switch name {
		case "FN":
			setOnce(&card.Name, value)
		case "ORG":
			setOnce(&card.Organization, value)
		case "EMAIL":
			setOnce(&card.Email, value)
		case "TEL":
			setOnce(&card.Phone, value)
		case "URL":
			setOnce(&card.URL, value)
		}
	}
	return card, true
}

// splitProperty returns the upper-cased property name and the raw value of a
// content line. Parameters and group prefixes are dropped.
func splitProperty(line string) (name, value string, ok bool) {
	head, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	if i := strings.IndexByte(head, ';'); i >= 0 {
		head = head[:i]
	}
	if i := strings.LastIndexByte(head, '.'); i >= 0 {
		head = head[i+1:]
	}
	return strings.ToUpper(strings.TrimSpace(head)), value, true
}
