// Package clips locates peer "voice memory" audio clips for schemes.
//
// The carrier needs a plain public URL to play, so clips live in a public S3
// bucket and the locator only builds URLs. An optional HeadObject probe skips
// clips that are definitively gone; probe outages never block a clip, because
// the carrier tolerates a failed Play and continues the call.
package clips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	xlog "github.com/voicebridge/sahaya/internal/log"
	"github.com/voicebridge/sahaya/internal/metrics"
)

// clipFiles maps scheme ids to clip object keys. Schemes without an entry
// have no recorded peer experience and the call simply skips the clip.
var clipFiles = map[string]string{
	"PM_KISAN": "voice_memory_PM_KISAN.mp3",
	"KCC":      "voice_memory_KCC.mp3",
	"PMFBY":    "voice_memory_PMFBY.mp3",
}

// ProbeAPI is the subset of the S3 client the locator uses.
type ProbeAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Locator is the audio clip collaborator facade.
type Locator struct {
	bucket  string
	region  string
	probe   ProbeAPI // nil disables existence probing
	timeout time.Duration
	logger  zerolog.Logger
}

// New creates a locator for the given public bucket.
func New(bucket, region string, probe ProbeAPI, timeout time.Duration) *Locator {
	return &Locator{
		bucket:  bucket,
		region:  region,
		probe:   probe,
		timeout: timeout,
		logger:  xlog.WithComponent("clips"),
	}
}

// Locate returns the public clip URL for the scheme, or ok=false when no
// clip should be played. It never fails.
func (l *Locator) Locate(ctx context.Context, schemeID, locale string) (string, bool) {
	key, known := clipFiles[schemeID]
	if !known {
		return "", false
	}

	// Locale-specific clips take priority when present.
	if l.probe != nil {
		if localized := localizedKey(key, locale); localized != key && l.exists(ctx, localized) {
			return l.publicURL(localized), true
		}
		if err := l.headObject(ctx, key); err != nil {
			var notFound *s3types.NotFound
			if errors.As(err, &notFound) {
				l.logger.Warn().
					Str(xlog.FieldScheme, schemeID).
					Str("key", key).
					Msg("clip object missing, skipping playback")
				return "", false
			}
			// Probe outage: serve the static URL anyway.
			metrics.IncCollaboratorFallback("clips")
			l.logger.Warn().
				Err(err).
				Str(xlog.FieldScheme, schemeID).
				Bool(xlog.FieldFallback, true).
				Msg("clip probe failed, serving static URL")
		}
	}
	return l.publicURL(key), true
}

func (l *Locator) exists(ctx context.Context, key string) bool {
	return l.headObject(ctx, key) == nil
}

func (l *Locator) headObject(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	_, err := l.probe.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (l *Locator) publicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", l.bucket, l.region, key)
}

// localizedKey derives the locale variant of a clip key, e.g.
// voice_memory_KCC.mp3 → voice_memory_KCC.en-IN.mp3.
func localizedKey(key, locale string) string {
	if locale == "" || locale == "hi-IN" {
		return key
	}
	const ext = ".mp3"
	if len(key) <= len(ext) || key[len(key)-len(ext):] != ext {
		return key
	}
	return key[:len(key)-len(ext)] + "." + locale + ext
}
