package units

import "strings"

// Unit types derived from raw unit names.
const (
	TypeICU   = "icu"
	TypeFloor = "floor"
)

// Canonical unit labels used by the multi-source forecast to merge aliased
// raw unit names into one bucket.
const (
	CanonicalICU   = "ICU"
	CanonicalFloor = "MED/SURG"
)

// icuMarkers are checked in order against the uppercased raw name. A name
// containing any marker is ICU, including names that also contain a floor
// alias (e.g. "ICU STEPDOWN TELE"). That precedence is intentional: an ICU
// bed misclassified as floor understates nurse needs, the reverse overstaffs.
var icuMarkers = []string{
	"ICU",
	"CCU",
	"INTENSIVE",
	"CRITICAL CARE",
}

// floorAliases are raw-name substrings that fold to the canonical floor
// label during forecast canonicalization.
var floorAliases = []string{
	"MED/SURG",
	"MED SURG",
	"MEDSURG",
	"MED-SURG",
	"TELEMETRY",
	"TELE",
	"FLOOR",
	"WARD",
}

// Classify maps a raw unit name to its unit type and ICU flag. Pure and
// side-effect free; persistence of observed names is the mapping store's job.
func Classify(rawName string) (unitType string, isICU bool) {
	upper := strings.ToUpper(rawName)
	for _, marker := range icuMarkers {
		if strings.Contains(upper, marker) {
			return TypeICU, true
		}
	}
	return TypeFloor, false
}

// Canonical folds families of aliased unit names to one canonical label so
// the combined forecast accumulates aliases into the same bucket. ICU
// markers win over floor aliases; unrecognized names pass through unchanged.
func Canonical(rawName string) string {
	upper := strings.ToUpper(rawName)
	for _, marker := range icuMarkers {
		if strings.Contains(upper, marker) {
			return CanonicalICU
		}
	}
	for _, alias := range floorAliases {
		if strings.Contains(upper, alias) {
			return CanonicalFloor
		}
	}
	return rawName
}
