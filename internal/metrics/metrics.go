// Package metrics exposes prometheus instrumentation for the call engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Call flow metrics
	webhookStagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahaya_webhook_stages_total",
		Help: "Webhook requests handled per conversation stage",
	}, []string{"stage"})

	digitRepromptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahaya_digit_reprompts_total",
		Help: "Out-of-range keypad answers that re-prompted the same stage",
	}, []string{"stage"})

	// Dispatch metrics
	callsInitiatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahaya_calls_initiated_total",
		Help: "Outbound call dispatch attempts by provider and outcome",
	}, []string{"provider", "outcome"}) // outcome=success|failure

	callDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sahaya_call_duration_seconds",
		Help:    "Completed call durations reported by the carrier status callback",
		Buckets: []float64{15, 30, 60, 90, 120, 180, 300, 600},
	})

	callStatusTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahaya_call_status_total",
		Help: "Carrier status callback events by reported status",
	}, []string{"status"})

	// Collaborator metrics
	collaboratorFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahaya_collaborator_fallbacks_total",
		Help: "Collaborator calls answered with the deterministic fallback",
	}, []string{"collaborator"}) // collaborator=eligibility|catalog|explain|clips

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sahaya_notifications_total",
		Help: "Background SMS notification attempts by outcome",
	}, []string{"outcome"}) // outcome=success|failure
)

func IncWebhookStage(stage string)       { webhookStagesTotal.WithLabelValues(stage).Inc() }
func IncDigitReprompt(stage string)      { digitRepromptsTotal.WithLabelValues(stage).Inc() }
func IncCallStatus(status string)        { callStatusTotal.WithLabelValues(status).Inc() }
func ObserveCallDuration(seconds int)    { callDurationSeconds.Observe(float64(seconds)) }
func IncCollaboratorFallback(kind string) {
	collaboratorFallbacksTotal.WithLabelValues(kind).Inc()
}

func IncCallInitiated(provider string, success bool) {
	callsInitiatedTotal.WithLabelValues(provider, outcome(success)).Inc()
}

func IncNotification(success bool) {
	notificationsTotal.WithLabelValues(outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
