// Package explain produces the short spoken explanation of a scheme for one
// specific caller. A chat model generates the personalised text; a
// deterministic localized template answers whenever the model is absent,
// slow, or returns something unusable.
package explain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/voicebridge/sahaya/internal/catalog"
	xlog "github.com/voicebridge/sahaya/internal/log"
	"github.com/voicebridge/sahaya/internal/metrics"
	"github.com/voicebridge/sahaya/internal/state"
)

const (
	// maxSpokenLen bounds the explanation length; callers are on a phone.
	maxSpokenLen = 300
	// minUsableLen guards against the model answering with filler.
	minUsableLen = 20
)

const systemPrompt = `You are Sahaya, a compassionate assistant helping rural Indian farmers access government welfare schemes.
Respond in simple everyday language matching the requested locale.
Never ask for Aadhaar numbers, OTPs, bank details, or passwords.
Recommend only the scheme named in the request and never invent or change benefit amounts.
Answer in at most two short sentences; the farmer is on a phone call.`

// Generator is the explanation collaborator facade.
type Generator struct {
	chatModel model.BaseChatModel // nil disables the model entirely
	timeout   time.Duration
	logger    zerolog.Logger
}

// New creates a generator. A nil chat model pins every answer to the template.
func New(chatModel model.BaseChatModel, timeout time.Duration) *Generator {
	return &Generator{
		chatModel: chatModel,
		timeout:   timeout,
		logger:    xlog.WithComponent("explain"),
	}
}

// Explain returns spoken explanation text for the scheme. It never fails and
// never returns an empty string.
func (g *Generator) Explain(ctx context.Context, subjectName string, scheme catalog.SchemeRecord, bracket state.LandBracket, hasCreditLine bool, locale string) string {
	if g.chatModel == nil {
		return Template(subjectName, scheme, locale)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.generate(ctx, subjectName, scheme, bracket, hasCreditLine, locale)
	if err != nil || len([]rune(text)) < minUsableLen {
		metrics.IncCollaboratorFallback("explain")
		g.logger.Warn().
			Err(err).
			Str(xlog.FieldScheme, scheme.ID).
			Bool(xlog.FieldFallback, true).
			Msg("explanation generation failed, serving template")
		return Template(subjectName, scheme, locale)
	}
	return text
}

func (g *Generator) generate(ctx context.Context, subjectName string, scheme catalog.SchemeRecord, bracket state.LandBracket, hasCreditLine bool, locale string) (string, error) {
	credit := "does not have"
	if hasCreditLine {
		credit = "has"
	}
	prompt := fmt.Sprintf(
		"Explain the scheme %q (benefit: %s) to %s in two sentences. They farm a %s holding and %s a Kisan Credit Card. Locale: %s.",
		scheme.Name(locale), scheme.Benefit, subjectName, bracket, credit, locale,
	)

	resp, err := g.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	})
	if err != nil {
		return "", fmt.Errorf("chat model: %w", err)
	}
	return Bound(resp.Content), nil
}

// Template is the deterministic fallback explanation.
func Template(subjectName string, scheme catalog.SchemeRecord, locale string) string {
	if subjectName == "" {
		subjectName = state.DefaultSubjectName
	}
	if locale == "en-IN" {
		return fmt.Sprintf("%s, under %s you will receive %s. This scheme is right for you.",
			subjectName, scheme.Name(locale), scheme.Benefit)
	}
	return fmt.Sprintf("%s ji, %s mein aapko %s milega. Yeh yojana aapke liye bilkul sahi hai.",
		subjectName, scheme.Name(locale), scheme.Benefit)
}

// Bound trims model output to at most two sentences and the spoken length
// cap. Both the Hindi danda and the full stop count as sentence breaks.
func Bound(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	sentences := splitSentences(text)
	if len(sentences) > 2 {
		sentences = sentences[:2]
	}
	out := strings.TrimSpace(strings.Join(sentences, " "))

	runes := []rune(out)
	if len(runes) > maxSpokenLen {
		out = string(runes[:maxSpokenLen])
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '।' || r == '.' || r == '?' || r == '!' {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}
