package transcription

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/codebuildervaibhav/podcast-transcript/internal/types"
)

// PickerAccept is the file-type filter of the page's file input. The server
// does not enforce it on the picker path.
const PickerAccept = ".mp3,audio/mpeg"

// inlineAudioPart packs the whole file into an inline data part. The SDK
// sends the bytes base64 encoded in inlineData.data.
func inlineAudioPart(file types.SelectedFile) (*genai.Part, error) {
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("file %q has no audio data", file.Name)
	}

	mimeType := file.MIMEType
	if mimeType == "" {
		mimeType = types.MIMETypeMP3
	}
	return genai.NewPartFromBytes(file.Data, mimeType), nil
}
