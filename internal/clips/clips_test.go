package clips

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
)

type fakeProbe struct {
	missing map[string]bool
	err     error
	calls   []string
}

func (f *fakeProbe) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	key := *params.Key
	f.calls = append(f.calls, key)
	if f.err != nil {
		return nil, f.err
	}
	if f.missing[key] {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestLocateWithoutProbe(t *testing.T) {
	l := New("voicebridge-audio", "ap-southeast-1", nil, time.Second)

	url, ok := l.Locate(context.Background(), "PM_KISAN", "hi-IN")
	assert.True(t, ok)
	assert.Equal(t, "https://voicebridge-audio.s3.ap-southeast-1.amazonaws.com/voice_memory_PM_KISAN.mp3", url)
}

func TestLocateUnknownScheme(t *testing.T) {
	l := New("voicebridge-audio", "ap-southeast-1", nil, time.Second)

	_, ok := l.Locate(context.Background(), "MGNREGS", "hi-IN")
	assert.False(t, ok)
}

func TestLocateSkipsMissingObject(t *testing.T) {
	probe := &fakeProbe{missing: map[string]bool{"voice_memory_KCC.mp3": true}}
	l := New("voicebridge-audio", "ap-southeast-1", probe, time.Second)

	_, ok := l.Locate(context.Background(), "KCC", "hi-IN")
	assert.False(t, ok)
}

func TestLocateSurvivesProbeOutage(t *testing.T) {
	probe := &fakeProbe{err: errors.New("connect timeout")}
	l := New("voicebridge-audio", "ap-southeast-1", probe, time.Second)

	url, ok := l.Locate(context.Background(), "PMFBY", "hi-IN")
	assert.True(t, ok)
	assert.Contains(t, url, "voice_memory_PMFBY.mp3")
}

func TestLocatePrefersLocalizedClip(t *testing.T) {
	probe := &fakeProbe{}
	l := New("voicebridge-audio", "ap-southeast-1", probe, time.Second)

	url, ok := l.Locate(context.Background(), "PM_KISAN", "en-IN")
	assert.True(t, ok)
	assert.Contains(t, url, "voice_memory_PM_KISAN.en-IN.mp3")
}

func TestLocalizedKey(t *testing.T) {
	assert.Equal(t, "a.en-IN.mp3", localizedKey("a.mp3", "en-IN"))
	assert.Equal(t, "a.mp3", localizedKey("a.mp3", "hi-IN"))
	assert.Equal(t, "a.mp3", localizedKey("a.mp3", ""))
	assert.Equal(t, "a.wav", localizedKey("a.wav", "en-IN"))
}
