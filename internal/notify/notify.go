// Package notify sends the document-checklist SMS that backs up the call.
//
// Sends happen on a detached goroutine with their own deadline: the markup
// response owed to the carrier is never blocked on SMS latency, and a failed
// send is logged and counted, never surfaced to the caller on the phone.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/rs/zerolog"

	"github.com/voicebridge/sahaya/internal/catalog"
	xlog "github.com/voicebridge/sahaya/internal/log"
	"github.com/voicebridge/sahaya/internal/metrics"
)

// maxMessageLen keeps the checklist within a small number of SMS segments.
const maxMessageLen = 450

// Sender delivers one SMS message.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// SNSAPI is the subset of the SNS client the sender uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender sends transactional SMS via Amazon SNS.
type SNSSender struct {
	client   SNSAPI
	senderID string
}

// NewSNSSender creates an SNS-backed sender.
func NewSNSSender(client SNSAPI, senderID string) *SNSSender {
	return &SNSSender{client: client, senderID: senderID}
}

// Send publishes the message to the phone number.
func (s *SNSSender) Send(ctx context.Context, phone, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(s.senderID),
			},
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

// LogSender logs instead of sending; the development default.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender() *LogSender {
	return &LogSender{logger: xlog.WithComponent("notify")}
}

// Send logs the message it would have sent.
func (s *LogSender) Send(_ context.Context, phone, message string) error {
	s.logger.Info().
		Str(xlog.FieldPhone, xlog.MaskPhone(phone)).
		Int("message_len", len(message)).
		Str("event", "notify.mock_send").
		Msg(message)
	return nil
}

// Dispatcher runs checklist sends in the background.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given per-send deadline.
func NewDispatcher(sender Sender, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		timeout: timeout,
		logger:  xlog.WithComponent("notify"),
	}
}

// SendChecklist dispatches the checklist SMS and returns immediately. The
// send runs detached from the webhook request context on purpose: the HTTP
// response ends that context long before SNS answers.
func (d *Dispatcher) SendChecklist(phone string, locale string, schemes []catalog.SchemeRecord) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		err := d.sender.Send(ctx, phone, ChecklistMessage(locale, schemes))
		metrics.IncNotification(err == nil)
		if err != nil {
			d.logger.Warn().
				Err(err).
				Str(xlog.FieldPhone, xlog.MaskPhone(phone)).
				Str("event", "notify.send_failed").
				Msg("checklist SMS failed")
			return
		}
		d.logger.Info().
			Str(xlog.FieldPhone, xlog.MaskPhone(phone)).
			Int("schemes", len(schemes)).
			Str("event", "notify.sent").
			Msg("checklist SMS sent")
	}()
}

// Wait blocks until all in-flight sends have finished. Used during shutdown
// and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// ChecklistMessage renders the SMS body for the matched schemes.
func ChecklistMessage(locale string, schemes []catalog.SchemeRecord) string {
	var b strings.Builder
	b.WriteString("Sahaya: ")
	for i, rec := range schemes {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(rec.Name(locale))
		b.WriteString(" - ")
		b.WriteString(rec.Benefit)
		if len(rec.Documents) > 0 {
			b.WriteString(". Kagaz: ")
			b.WriteString(strings.Join(rec.Documents, ", "))
		}
		if rec.ApplyAt != "" {
			b.WriteString(". Apply: ")
			b.WriteString(rec.ApplyAt)
		}
	}

	msg := b.String()
	if runes := []rune(msg); len(runes) > maxMessageLen {
		msg = string(runes[:maxMessageLen])
	}
	return msg
}
