// Package observability expone los contadores Prometheus de la red de
// adopción. Cada servicio monta /metrics con promhttp.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	decisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adoption_network",
		Subsystem: "workflow",
		Name:      "decisions_total",
		Help:      "Adoption decisions committed locally, by decision and remote notify outcome.",
	}, []string{"decision", "remote_notified"})

	gatewayCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adoption_network",
		Subsystem: "gateway",
		Name:      "calls_total",
		Help:      "Outbound cross-service calls, by target service and classified outcome.",
	}, []string{"target", "outcome"})

	appointmentConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "adoption_network",
		Subsystem: "clinic",
		Name:      "appointment_conflicts_total",
		Help:      "Appointment creations rejected by the practitioner overlap rule.",
	})
)

func init() {
	prometheus.MustRegister(decisionsTotal, gatewayCallsTotal, appointmentConflictsTotal)
}

// RecordDecision cuenta una decisión comprometida localmente.
func RecordDecision(decision string, remoteNotified bool) {
	notified := "false"
	if remoteNotified {
		notified = "true"
	}
	decisionsTotal.WithLabelValues(decision, notified).Inc()
}

// RecordGatewayCall cuenta una llamada saliente ya clasificada
// (success, remote_error, timeout, unreachable).
func RecordGatewayCall(target, outcome string) {
	gatewayCallsTotal.WithLabelValues(target, outcome).Inc()
}

// RecordAppointmentConflict cuenta un turno rechazado por solapamiento.
func RecordAppointmentConflict() {
	appointmentConflictsTotal.Inc()
}
