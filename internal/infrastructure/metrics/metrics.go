// Package metrics expone los contadores de negocio en Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/nutrition-program-api/internal/application/party"
	"github.com/jhoicas/nutrition-program-api/internal/application/voucher"
)

var (
	_ party.ConflictRecorder   = (*Metrics)(nil)
	_ voucher.WorkflowRecorder = (*Metrics)(nil)
)

const namespace = "nutrition"

// Metrics agrupa los collectors de la aplicación.
type Metrics struct {
	exclusivityConflicts prometheus.Counter
	vouchersCreated      prometheus.Counter
	voucherDecisions     *prometheus.CounterVec
	activeVOAmbiguity    prometheus.Counter
}

// New registra los collectors en reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		exclusivityConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contractor_exclusivity_conflicts_total",
			Help:      "Activaciones de contratista rechazadas porque ya había otro activo.",
		}),
		vouchersCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vouchers_created_total",
			Help:      "Vouchers creados por DEOs.",
		}),
		voucherDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voucher_decisions_total",
			Help:      "Decisiones de VO sobre vouchers, por estado final.",
		}, []string{"status"}),
		activeVOAmbiguity: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "active_vo_ambiguity_total",
			Help:      "Vouchers creados habiendo más de un Verification Officer activo.",
		}),
	}
}

func (m *Metrics) IncExclusivityConflict()          { m.exclusivityConflicts.Inc() }
func (m *Metrics) IncVoucherCreated()               { m.vouchersCreated.Inc() }
func (m *Metrics) IncVoucherDecision(status string) { m.voucherDecisions.WithLabelValues(status).Inc() }
func (m *Metrics) IncActiveVOAmbiguity()            { m.activeVOAmbiguity.Inc() }
