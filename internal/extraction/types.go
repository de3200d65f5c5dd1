package extraction

import "strings"

// Unspecified is the sentinel the extraction service emits when a field could
// not be recovered from the video. Consumers skip sentinel values instead of
// persisting them.
const Unspecified = "unspecified"

// IsUnspecified reports whether a value is empty or the sentinel, case-insensitive.
func IsUnspecified(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || strings.EqualFold(trimmed, Unspecified)
}

// Profile is the structured candidate data recovered from a video resume.
// Multi-valued fields arrive comma-separated; any field may be the sentinel.
type Profile struct {
	Name         string `json:"name"`
	Profession   string `json:"profession"`
	Experience   string `json:"experience"`
	Education    string `json:"education"`
	Technologies string `json:"technologies"`
	Languages    string `json:"languages"`
	Achievements string `json:"achievements"`
	SoftSkills   string `json:"softSkills"`
}

// Result is the full response of one extraction call.
type Result struct {
	Transcription string  `json:"transcription"`
	Profile       Profile `json:"profile"`
}

// SplitValues splits a comma-separated field into trimmed entries, dropping
// empty and sentinel entries.
func SplitValues(field string) []string {
	if IsUnspecified(field) {
		return nil
	}
	var values []string
	for _, part := range strings.Split(field, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" || strings.EqualFold(trimmed, Unspecified) {
			continue
		}
		values = append(values, trimmed)
	}
	return values
}
