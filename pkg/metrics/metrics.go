package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	planningPortal = "planning_portal"

	// Submission metrics
	submissionsTotal = "assessment_submissions_total"

	// Document metrics
	documentUploadsTotal = "document_uploads_total"

	// Ticket metrics
	TicketStatusCount = "ticket_status_count"

	// Labels
	assessmentTypeLabel   = "assessment_type"
	submissionResultLabel = "result"
	documentIDLabel       = "document_id"
	ticketStateLabel      = "state"
)

var submissionsTotalLabels = []string{
	assessmentTypeLabel,
	submissionResultLabel,
}

var documentUploadsTotalLabels = []string{
	documentIDLabel,
}

var ticketStatusCountLabels = []string{
	ticketStateLabel,
}

/**
* Metrics definition
**/
var submissionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: planningPortal,
		Name:      submissionsTotal,
		Help:      "number of assessment submissions partitioned by type and result",
	},
	submissionsTotalLabels,
)

var documentUploadsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: planningPortal,
		Name:      documentUploadsTotal,
		Help:      "number of document uploads partitioned by document slot",
	},
	documentUploadsTotalLabels,
)

var ticketStatusCountMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: planningPortal,
		Name:      TicketStatusCount,
		Help:      "metrics to record the number of tickets in each status",
	},
	ticketStatusCountLabels,
)

func IncreaseSubmissionsTotalMetric(assessmentType, result string) {
	labels := prometheus.Labels{
		assessmentTypeLabel:   assessmentType,
		submissionResultLabel: result,
	}
	submissionsTotalMetric.With(labels).Inc()
}

func IncreaseDocumentUploadsTotalMetric(documentID string) {
	labels := prometheus.Labels{
		documentIDLabel: documentID,
	}
	documentUploadsTotalMetric.With(labels).Inc()
}

func UpdateTicketStateCounterMetric(state string, count int) {
	labels := prometheus.Labels{
		ticketStateLabel: state,
	}
	ticketStatusCountMetric.With(labels).Set(float64(count))
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(submissionsTotalMetric)
	prometheus.MustRegister(documentUploadsTotalMetric)
	prometheus.MustRegister(ticketStatusCountMetric)
}
