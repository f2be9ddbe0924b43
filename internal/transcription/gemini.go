package transcription

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/codebuildervaibhav/podcast-transcript/internal/apperrors"
	"github.com/codebuildervaibhav/podcast-transcript/internal/types"
)

const (
	DefaultModel               = "gemini-2.5-flash"
	DefaultTemperature float32 = 0.2
)

// Prompt is sent ahead of the audio on every request
const Prompt = "You are an expert audio transcriptionist. Please transcribe the following podcast audio. " +
	"The output should be a clean, readable text transcript. " +
	"Identify different speakers if possible (e.g., Speaker 1:, Speaker 2:). " +
	"Format the transcript into paragraphs for better readability. " +
	"Do not include any of your own commentary, just provide the raw transcript."

const unknownTranscriptionError = "An unknown error occurred during transcription."

// ErrMissingAPIKey is returned before any network call when no key is set
var ErrMissingAPIKey = apperrors.New(apperrors.KindConfiguration,
	"The GEMINI_API_KEY environment variable is not set.")

var errNoCandidates = errors.New("the model returned no transcript")

// Options configures a GeminiTranscriber
type Options struct {
	APIKey      string
	Model       string
	Temperature float32
	// BaseURL overrides the Gemini API endpoint
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiTranscriber turns one audio file into a transcript with a single
// generate-content call
type GeminiTranscriber struct {
	opts   Options
	logger *zap.Logger
}

// NewGeminiTranscriber creates a transcriber; the API key is checked per call
func NewGeminiTranscriber(opts Options, logger *zap.Logger) *GeminiTranscriber {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiTranscriber{
		opts:   opts,
		logger: logger.Named("gemini"),
	}
}

// Model returns the model name used for requests
func (g *GeminiTranscriber) Model() string {
	return g.opts.Model
}

// Transcribe sends the file to Gemini and post-processes the reply. Every
// failure after the credential check is returned as a transcription error.
func (g *GeminiTranscriber) Transcribe(ctx context.Context, file types.SelectedFile) (string, error) {
	if g.opts.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	g.logger.Info("transcribing",
		zap.String("file", file.Name),
		zap.String("mime_type", file.MIMEType),
		zap.Int64("size", file.Size),
		zap.String("model", g.opts.Model))

	text, err := g.generate(ctx, file)
	if err != nil {
		g.logger.Error("transcription failed", zap.String("file", file.Name), zap.Error(err))
		return "", newTranscriptionError(err)
	}

	return StripSingleSpeakerTags(text), nil
}

func (g *GeminiTranscriber) generate(ctx context.Context, file types.SelectedFile) (string, error) {
	audio, err := inlineAudioPart(file)
	if err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, g.clientConfig())
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(Prompt),
			audio,
		}, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, g.opts.Model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.opts.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", errNoCandidates
	}

	return resp.Text(), nil
}

func (g *GeminiTranscriber) clientConfig() *genai.ClientConfig {
	cc := &genai.ClientConfig{
		APIKey:     g.opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.opts.HTTPClient,
	}
	if g.opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.opts.BaseURL}
	}
	return cc
}

// newTranscriptionError forwards the cause's message, or a generic one when
// the cause has none
func newTranscriptionError(cause error) *apperrors.Error {
	msg := cause.Error()
	if msg == "" {
		return apperrors.Wrap(apperrors.KindTranscription, cause, unknownTranscriptionError)
	}
	return apperrors.Wrap(apperrors.KindTranscription, cause, "Error during transcription: "+msg)
}
