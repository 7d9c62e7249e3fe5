// Package twiml models the carrier voice-markup document.
//
// The engine only ever renders markup, so the verb set is the small subset the
// call flow needs: spoken text, audio playback, pauses, digit gathering,
// redirects and hangup.
package twiml

import (
	"encoding/xml"
	"fmt"
)

// ContentType is the media type the carrier requires on every markup response.
const ContentType = "text/xml; charset=utf-8"

// Verb is implemented by every markup element that may appear in a Response.
type Verb interface {
	isVerb()
}

// Response is the root markup element.
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []Verb
}

// Append adds verbs to the document in order.
func (r *Response) Append(verbs ...Verb) *Response {
	r.Verbs = append(r.Verbs, verbs...)
	return r
}

// Render serialises the document with the XML declaration the carrier expects.
func (r *Response) Render() ([]byte, error) {
	body, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal markup: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// SpokenText collects the synthesized speech of a document in playback
// order, descending into Gather verbs.
func SpokenText(r *Response) []string {
	return spokenText(r.Verbs)
}

func spokenText(verbs []Verb) []string {
	var lines []string
	for _, v := range verbs {
		switch verb := v.(type) {
		case Say:
			lines = append(lines, verb.Text)
		case Gather:
			lines = append(lines, spokenText(verb.Verbs)...)
		}
	}
	return lines
}

// Say outputs synthesized speech.
type Say struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

func (Say) isVerb() {}

// Play plays an audio clip from a public URL.
type Play struct {
	XMLName xml.Name `xml:"Play"`
	URL     string   `xml:",chardata"`
}

func (Play) isVerb() {}

// Pause waits for the given number of seconds.
type Pause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

func (Pause) isVerb() {}

// Gather collects DTMF digits and posts them to the action URL.
// FinishOnKey is deliberately always emitted: an explicit empty value stops
// the carrier from treating '#' as a terminator on single-digit prompts.
type Gather struct {
	XMLName     xml.Name `xml:"Gather"`
	NumDigits   int      `xml:"numDigits,attr,omitempty"`
	Action      string   `xml:"action,attr"`
	Method      string   `xml:"method,attr,omitempty"`
	Timeout     int      `xml:"timeout,attr,omitempty"`
	FinishOnKey string   `xml:"finishOnKey,attr"`
	Verbs       []Verb
}

func (Gather) isVerb() {}

// Redirect fetches new markup from a URL.
type Redirect struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr,omitempty"`
	URL     string   `xml:",chardata"`
}

func (Redirect) isVerb() {}

// Hangup ends the call.
type Hangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

func (Hangup) isVerb() {}
