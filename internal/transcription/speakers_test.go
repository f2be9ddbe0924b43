package transcription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripSingleSpeakerTags(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single speaker tags removed",
			in:   "Speaker 1: Welcome to the show.\n\nSpeaker 1: Today we talk about Go.",
			want: "Welcome to the show.\n\nToday we talk about Go.",
		},
		{
			name: "case insensitive",
			in:   "SPEAKER 1: hello\nspeaker 1: again",
			want: "hello\nagain",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  \n Speaker 1: just me \n ",
			want: "just me",
		},
		{
			name: "no tags",
			in:   "  plain transcript  ",
			want: "plain transcript",
		},
		{
			name: "speaker 0 and 1 are not additional speakers",
			in:   "Speaker 0: a\nSpeaker 1: b",
			want: "a\nb",
		},
		{
			name: "only one trailing space is consumed",
			in:   "Speaker 1:  indented",
			want: "indented",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripSingleSpeakerTags(tc.in))
		})
	}
}

func TestStripSingleSpeakerTagsKeepsMultiSpeakerText(t *testing.T) {
	testCases := []string{
		"Speaker 1: Hi.\n\nSpeaker 2: Hello.",
		"speaker 2: lower case second speaker, trailing spaces  ",
		"Speaker 1: a\nSpeaker 9: b",
		"Speaker 1: a\nSpeaker 10: b",
		"Speaker 1: a\nSPEAKER 12: b",
		"\n Speaker 3: only the third ",
	}

	for _, in := range testCases {
		assert.Equal(t, in, StripSingleSpeakerTags(in), "input %q", in)
		assert.True(t, HasMultipleSpeakers(in))
	}
}

func TestHasMultipleSpeakersNeedsColon(t *testing.T) {
	assert.False(t, HasMultipleSpeakers("Speaker 2 said nothing"))
	assert.False(t, HasMultipleSpeakers("Speaker 1: only"))
}
