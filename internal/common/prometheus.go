package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	XPDecisionTotal            = "xp_decision_total"
	XPCreditedTotal            = "xp_credited_total"
	InviteAttributionTotal     = "invite_attribution_total"
	ChatEventTotal             = "chat_event_total"
	CronJobDurationSeconds     = "cron_job_duration_seconds"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		XPDecisionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: XPDecisionTotal,
			Help: "Count of message XP decisions by reason",
		}, []string{"reason"}),
		XPCreditedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: XPCreditedTotal,
			Help: "Sum of XP credited by kind",
		}, []string{"kind"}),
		InviteAttributionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: InviteAttributionTotal,
			Help: "Count of join attribution outcomes",
		}, []string{"result"}),
		ChatEventTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ChatEventTotal,
			Help: "Count of consumed chat events by type",
		}, []string{"type"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
		CronJobDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: CronJobDurationSeconds,
			Help: "Duration of cron job runs",
		}, []string{"job"}),
	}
)
