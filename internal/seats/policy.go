package seats

import (
	"fmt"
	"strings"
)

// AbsentPolicy decides how a target that does not appear on the page is
// reported.
//
// AbsentUnknown treats a missing target as an unknown seat count and a failed
// check. AbsentAsZero treats it as a trip that is not (or no longer) listed,
// i.e. zero available seats and a successful check. Both readings are
// legitimate for a seat monitor, so the choice is explicit configuration and
// AbsentUnknown is the default.
type AbsentPolicy string

const (
	AbsentUnknown AbsentPolicy = "unknown"
	AbsentAsZero  AbsentPolicy = "zero"
)

// ParseAbsentPolicy accepts "unknown" (or empty) and "zero".
func ParseAbsentPolicy(s string) (AbsentPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(AbsentUnknown):
		return AbsentUnknown, nil
	case string(AbsentAsZero):
		return AbsentAsZero, nil
	default:
		return "", fmt.Errorf("unknown absent policy %q (want unknown or zero)", s)
	}
}
