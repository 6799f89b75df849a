package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// tokenRejectionsTotal counts requests turned away by Require.
	tokenRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_rejections_total",
			Help: "Requests rejected for a missing or invalid token",
		},
		[]string{"reason"}, // reason: missing | invalid
	)

	// authzCheckDuration tracks token verification time.
	authzCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "authz_check_duration_seconds",
			Help:    "Token verification duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	// loginDuration tracks the login handler, bcrypt included.
	loginDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_login_duration_seconds",
			Help:    "Login duration by result",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"result"},
	)
)

// RecordTokenRejection records a rejected token.
func RecordTokenRejection(reason string) {
	tokenRejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordAuthzCheckDuration records token verification duration.
func RecordAuthzCheckDuration(durationSeconds float64) {
	authzCheckDuration.Observe(durationSeconds)
}

// RecordLoginDuration records login duration.
func RecordLoginDuration(result string, durationSeconds float64) {
	loginDuration.WithLabelValues(result).Observe(durationSeconds)
}
