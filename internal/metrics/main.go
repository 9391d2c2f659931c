package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/privmind/therapy-svc/internal/data"
)

var (
	sessionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "therapy_sessions_total",
		Help: "Number of sessions currently on the ledger",
	})

	verifiedSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "therapy_verified_sessions",
		Help: "Number of sessions with an accepted decryption proof",
	})

	avgMood = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "therapy_avg_mood",
		Help: "Average plaintext-mirror mood score across sessions",
	})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "therapy_submissions_total",
		Help: "Session creation submissions by result",
	}, []string{"result"})

	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "therapy_verifications_total",
		Help: "Decryption verification attempts by result",
	}, []string{"result"})
)

// ObserveStats publishes the derived collection metrics after a refresh.
func ObserveStats(stats data.Stats) {
	sessionsTotal.Set(float64(stats.TotalSessions))
	verifiedSessions.Set(float64(stats.VerifiedSessions))
	avgMood.Set(stats.AvgMood)
}

func ObserveSubmission(result string) {
	submissions.WithLabelValues(result).Inc()
}

func ObserveVerification(result string) {
	verifications.WithLabelValues(result).Inc()
}
