package remote

import "strings"

// Verdict is the enumerated result of classifying a probe's output.
type Verdict int

const (
	// VerdictValid means the probe found no known failure signature.
	VerdictValid Verdict = iota
	// VerdictInvalidToken means the profile's token needs a reconnect.
	VerdictInvalidToken
)

// String returns a readable verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictInvalidToken:
		return "invalid-token"
	default:
		return "unknown"
	}
}

// failureSignatures are the rclone output fragments that mark an
// authorization failure. Matching is case-insensitive substring matching
// against the probe's combined output. This table is the single place
// these strings live; rclone output format changes land here.
var failureSignatures = []string{
	"empty token",
	"failed to create oauth client",
	"invalid_grant",
}

// Classify inspects a probe's combined output and returns a verdict.
// Anything that does not match a known failure signature is treated as
// valid; the upload itself is the final arbiter.
func Classify(output string) Verdict {
	lowered := strings.ToLower(output)
	for _, sig := range failureSignatures {
		if strings.Contains(lowered, sig) {
			return VerdictInvalidToken
		}
	}
	return VerdictValid
}
