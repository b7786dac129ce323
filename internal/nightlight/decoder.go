// Package nightlight interprets the Night Light state blob that Windows keeps
// in the per-user CloudStore.
//
// The blob format is undocumented. Everything this program assumes about it
// lives in this file.
package nightlight

const (
	// StateOffset is the byte that reads 0x10 while Night Light is active.
	StateOffset = 23
	// FlagOffset is the byte that follows it; 0x00 while Night Light is active.
	FlagOffset = 24

	stateActive byte = 0x10
	flagActive  byte = 0x00

	// MinLength is the shortest blob that can encode an active state.
	MinLength = FlagOffset + 1
)

// IsActive reports whether the blob says Night Light is on.
// Truncated or otherwise unexpected blobs are treated as off.
func IsActive(blob []byte) bool {
	if len(blob) < MinLength {
		return false
	}
	return blob[StateOffset] == stateActive && blob[FlagOffset] == flagActive
}

// Describe returns "enabled" or "disabled" for log and status output.
func Describe(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
