package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messenger_http_requests_total",
			Help: "Total number of HTTP requests processed by the messenger service.",
		},
		[]string{"method", "route", "action", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messenger_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "action"},
	)
	messagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messenger_messages_sent_total",
			Help: "Total number of messages appended to chats.",
		},
	)
	chatsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messenger_chats_created_total",
			Help: "Total number of one-to-one chats created.",
		},
	)
	operationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messenger_operation_errors_total",
			Help: "Total number of failed service operations by error kind.",
		},
		[]string{"operation", "kind"},
	)
	eventPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messenger_event_publish_errors_total",
			Help: "Total number of domain event publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		messagesSentTotal,
		chatsCreatedTotal,
		operationErrorsTotal,
		eventPublishErrorsTotal,
	)
}

// ActionKey is the gin context key under which handlers record the
// dispatched action, so requests to the same route stay distinguishable.
const ActionKey = "action"

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		action := c.GetString(ActionKey)
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, action, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route, action).Observe(time.Since(start).Seconds())
	}
}

func IncMessagesSent() {
	messagesSentTotal.Inc()
}

func IncChatsCreated() {
	chatsCreatedTotal.Inc()
}

func IncOperationError(operation, kind string) {
	operationErrorsTotal.WithLabelValues(operation, kind).Inc()
}

func IncEventPublishError() {
	eventPublishErrorsTotal.Inc()
}
