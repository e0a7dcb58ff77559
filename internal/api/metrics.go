package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"quickai/internal/service"
)

var (
	// httpReqs counts requests by method, registered route, and status code.
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// generations counts generation attempts by creation type and outcome.
	generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_total",
			Help: "Total number of generation requests by type and outcome.",
		},
		[]string{"type", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, generations)
}

// Metrics 采集 HTTP 请求指标的中间件。path 标签使用注册路由，避免原始
// URL 导致标签基数膨胀。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpReqs.WithLabelValues(method, path, status).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// recordGeneration 记录一次生成请求的结果
func recordGeneration(creationType string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, service.ErrQuotaExhausted):
		outcome = "quota_denied"
	case errors.Is(err, service.ErrPremiumRequired):
		outcome = "premium_denied"
	default:
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			outcome = "invalid_input"
		} else {
			outcome = "error"
		}
	}
	generations.WithLabelValues(creationType, outcome).Inc()
}
