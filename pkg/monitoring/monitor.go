package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// SubmissionCounter 按结果统计答卷提交：ok / invalid / not_found / locked / error
	SubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_submissions_total",
			Help: "Total number of exam answer submissions by outcome",
		},
		[]string{"outcome"},
	)

	// ExamLockCounter 锁定窗口被触发的次数
	ExamLockCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "exam_locks_applied_total",
			Help: "Total number of times the retry lockout was applied",
		},
	)

	SubmissionPercentage = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exam_submission_percentage",
			Help:    "Score percentage of successful submissions",
			Buckets: []float64{0, 25, 50, 66.67, 75, 90, 100},
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SubmissionCounter)
	prometheus.MustRegister(ExamLockCounter)
	prometheus.MustRegister(SubmissionPercentage)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
