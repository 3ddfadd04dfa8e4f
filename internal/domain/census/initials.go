package census

import "strings"

// deriveInitials reduces a full patient name to initials. Roster exports use
// either "Last, First Middle" or "First Middle Last"; a comma means the
// surname leads, so the parts after it are moved back in front before the
// first letter of each part is taken. The full name itself is never stored.
func deriveInitials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if last, rest, ok := strings.Cut(name, ","); ok {
		name = strings.TrimSpace(rest) + " " + strings.TrimSpace(last)
	}
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(part[:1]))
	}
	return b.String()
}
