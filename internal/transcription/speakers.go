package transcription

import (
	"regexp"
	"strings"
)

var (
	// "Speaker 2:" through "Speaker 9:", or any two-or-more digit speaker
	additionalSpeakerRe = regexp.MustCompile(`(?i)speaker [2-9]:`)
	manyDigitSpeakerRe  = regexp.MustCompile(`(?i)speaker \d{2,}:`)

	speakerTagRe = regexp.MustCompile(`(?i)speaker \d+:\s?`)
)

// HasMultipleSpeakers reports whether text carries a tag above "Speaker 1:"
func HasMultipleSpeakers(text string) bool {
	return additionalSpeakerRe.MatchString(text) || manyDigitSpeakerRe.MatchString(text)
}

// StripSingleSpeakerTags removes speaker tags from single-speaker transcripts.
// Multi-speaker text is returned unchanged.
func StripSingleSpeakerTags(text string) string {
	if HasMultipleSpeakers(text) {
		return text
	}
	return strings.TrimSpace(speakerTagRe.ReplaceAllString(text, ""))
}
