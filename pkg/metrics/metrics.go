package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя, поэтому метрики можно отключить конфигом.
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec

	bookingOutcomes  *prometheus.CounterVec
	lockWaitDuration *prometheus.HistogramVec
	notifications    *prometheus.CounterVec
	expiredTokens    *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создаёт метрики и регистрирует их в переданном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database pool connections by state",
		}, []string{"service", "state"}),
		bookingOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_attempts_total",
			Help: "Booking attempts by outcome",
		}, []string{"service", "outcome"}),
		lockWaitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "booking_lock_wait_seconds",
			Help:    "Time spent waiting for a stylist-day lock",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"service"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_notifications_total",
			Help: "Booking notifications by channel and result",
		}, []string{"service", "channel", "result"}),
		expiredTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_expired_tokens_total",
			Help: "Confirmation tokens cleared by the janitor",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbConnections,
		m.bookingOutcomes,
		m.lockWaitDuration,
		m.notifications,
		m.expiredTokens,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершённый HTTP запрос
func (m *Metrics) ObserveHTTPRequest(serviceName, method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(serviceName, method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует запрос к БД
func (m *Metrics) ObserveDBQuery(serviceName, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(serviceName, operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.dbQueryErrors.WithLabelValues(serviceName, operation).Inc()
	}
}

// SetDBPoolStats обновляет состояние пула соединений
func (m *Metrics) SetDBPoolStats(serviceName string, stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues(serviceName, "open").Set(float64(stats.OpenConnections))
	m.dbConnections.WithLabelValues(serviceName, "in_use").Set(float64(stats.InUse))
	m.dbConnections.WithLabelValues(serviceName, "idle").Set(float64(stats.Idle))
}

// IncBookingOutcome увеличивает счётчик попыток бронирования с данным исходом
func (m *Metrics) IncBookingOutcome(outcome string) {
	if m == nil {
		return
	}
	m.bookingOutcomes.WithLabelValues(m.serviceName, outcome).Inc()
}

// ObserveLockWait фиксирует время ожидания блокировки
func (m *Metrics) ObserveLockWait(duration time.Duration) {
	if m == nil {
		return
	}
	m.lockWaitDuration.WithLabelValues(m.serviceName).Observe(duration.Seconds())
}

// IncNotification увеличивает счётчик уведомлений
func (m *Metrics) IncNotification(channel, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(m.serviceName, channel, result).Inc()
}

// AddExpiredTokens увеличивает счётчик очищенных токенов
func (m *Metrics) AddExpiredTokens(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.expiredTokens.WithLabelValues(m.serviceName).Add(float64(n))
}
