package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OTPIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_issued_total",
			Help: "OTP challenges issued, by trigger",
		},
		[]string{"trigger"},
	)

	OTPVerifyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verify_total",
			Help: "OTP verification attempts, by outcome",
		},
		[]string{"outcome"},
	)

	SMSSendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_send_total",
			Help: "SMS gateway calls, by result",
		},
		[]string{"result"},
	)
)
