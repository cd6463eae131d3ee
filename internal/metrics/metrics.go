package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "detector"

// Metrics reúne os contadores do serviço num registry próprio
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal       *prometheus.CounterVec
	CapabilityFailures  *prometheus.CounterVec
	PageFetchesTotal    *prometheus.CounterVec
	ImageSourcesTotal   *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New cria e registra as métricas
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total de análises por resultado",
		}, []string{"outcome"}),
		CapabilityFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capability_failures_total",
			Help:      "Falhas das análises remotas por tipo",
		}, []string{"capability"}),
		PageFetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_fetches_total",
			Help:      "Buscas de página por resultado",
		}, []string{"result"}),
		ImageSourcesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_sources_total",
			Help:      "Origem da imagem escolhida",
		}, []string{"source"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requisições HTTP recebidas",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duração das requisições HTTP",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "route"}),
	}
}

// Handler expõe as métricas no formato do Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Os métodos abaixo aceitam receptor nil para que as métricas sejam opcionais

// ObserveAnalysis conta uma análise concluída
func (m *Metrics) ObserveAnalysis(outcome string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
}

// ObserveCapabilityFailure conta uma falha de análise remota
func (m *Metrics) ObserveCapabilityFailure(capability string) {
	if m == nil {
		return
	}
	m.CapabilityFailures.WithLabelValues(capability).Inc()
}

// ObservePageFetch conta uma busca de página
func (m *Metrics) ObservePageFetch(result string) {
	if m == nil {
		return
	}
	m.PageFetchesTotal.WithLabelValues(result).Inc()
}

// ObserveImageSource conta a origem da imagem
func (m *Metrics) ObserveImageSource(source string) {
	if m == nil {
		return
	}
	m.ImageSourcesTotal.WithLabelValues(source).Inc()
}

// ObserveHTTPRequest registra uma requisição HTTP atendida
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
