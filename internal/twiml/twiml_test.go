package twiml

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGatherDocument(t *testing.T) {
	doc := &Response{}
	doc.Append(
		Say{Voice: "Polly.Kajal", Language: "hi-IN", Text: "Namaste"},
		Pause{Length: 1},
		Gather{
			NumDigits: 1,
			Action:    "https://calls.example.org/api/call/stage/land?stage=land",
			Method:    "POST",
			Timeout:   10,
			Verbs: []Verb{
				Say{Voice: "Polly.Kajal", Language: "hi-IN", Text: "1 dabayen"},
			},
		},
		Say{Voice: "Polly.Kajal", Language: "hi-IN", Text: "Koi jawab nahi mila."},
	)

	out, err := doc.Render()
	require.NoError(t, err)
	markup := string(out)

	assert.True(t, strings.HasPrefix(markup, xml.Header))
	assert.Contains(t, markup, "<Response>")
	assert.Contains(t, markup, `voice="Polly.Kajal"`)
	assert.Contains(t, markup, `language="hi-IN"`)
	assert.Contains(t, markup, `numDigits="1"`)
	assert.Contains(t, markup, `method="POST"`)
	// Explicit empty finishOnKey must survive rendering.
	assert.Contains(t, markup, `finishOnKey=""`)
	// Action URLs carry query strings; ampersands must be escaped, not raw.
	assert.NotContains(t, markup, "?stage=land&next")
}

func TestRenderEscapesSpokenText(t *testing.T) {
	doc := &Response{}
	doc.Append(Say{Text: `benefit <6,000> & "more"`})

	out, err := doc.Render()
	require.NoError(t, err)
	markup := string(out)

	assert.Contains(t, markup, "&lt;6,000&gt;")
	assert.Contains(t, markup, "&amp;")
	assert.NotContains(t, markup, "<6,000>")
}

func TestRenderWellFormed(t *testing.T) {
	doc := &Response{}
	doc.Append(
		Play{URL: "https://bucket.s3.ap-southeast-1.amazonaws.com/clip.mp3"},
		Redirect{Method: "POST", URL: "https://calls.example.org/api/call/twiml"},
		Hangup{},
	)

	out, err := doc.Render()
	require.NoError(t, err)

	// The carrier rejects anything that is not well-formed XML.
	var parsed struct {
		XMLName xml.Name `xml:"Response"`
	}
	require.NoError(t, xml.Unmarshal(out, &parsed))
}

func TestSpokenTextDescendsIntoGather(t *testing.T) {
	doc := &Response{}
	doc.Append(
		Say{Text: "Namaste"},
		Pause{Length: 1},
		Gather{Verbs: []Verb{Say{Text: "1 dabayen"}}},
		Play{URL: "https://example.org/clip.mp3"},
		Say{Text: "Dhanyavaad"},
	)

	assert.Equal(t, []string{"Namaste", "1 dabayen", "Dhanyavaad"}, SpokenText(doc))
}

func TestEmptyResponseRenders(t *testing.T) {
	doc := &Response{}
	out, err := doc.Render()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Response")
}
