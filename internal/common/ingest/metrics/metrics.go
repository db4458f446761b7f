package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type (
	DBOperation        string
	PulsarMessageError string
)

const (
	DBOperationInsert  DBOperation = "insert"
	DBOperationRead    DBOperation = "read"
	DBOperationConnect DBOperation = "connect"

	PulsarMessageErrorDeserialization PulsarMessageError = "deserialization"
	PulsarMessageErrorProcessing      PulsarMessageError = "processing"
)

const LogIngesterMetricsPrefix = "logsearcher_ingester_"

type Metrics struct {
	dbErrorsCounter       *prometheus.CounterVec
	pulsarConnectionError prometheus.Counter
	pulsarMessageError    *prometheus.CounterVec
	rowsIngested          prometheus.Counter
}

func NewMetrics(prefix string) *Metrics {
	dbErrorsCounterOpts := prometheus.CounterOpts{
		Name: prefix + "db_errors",
		Help: "Number of database errors grouped by database operation",
	}
	pulsarMessageErrorOpts := prometheus.CounterOpts{
		Name: prefix + "pulsar_message_errors",
		Help: "Number of Pulsar message errors grouped by error type",
	}
	pulsarConnectionErrorOpts := prometheus.CounterOpts{
		Name: prefix + "pulsar_connection_errors",
		Help: "Number of Pulsar connection errors",
	}
	rowsIngestedOpts := prometheus.CounterOpts{
		Name: prefix + "rows_ingested",
		Help: "Number of log rows successfully written to the database",
	}
	return &Metrics{
		dbErrorsCounter:       promauto.NewCounterVec(dbErrorsCounterOpts, []string{"operation"}),
		pulsarMessageError:    promauto.NewCounterVec(pulsarMessageErrorOpts, []string{"error"}),
		pulsarConnectionError: promauto.NewCounter(pulsarConnectionErrorOpts),
		rowsIngested:          promauto.NewCounter(rowsIngestedOpts),
	}
}

func (m *Metrics) RecordDBError(operation DBOperation) {
	m.dbErrorsCounter.With(map[string]string{"operation": string(operation)}).Inc()
}

func (m *Metrics) RecordPulsarMessageError(error PulsarMessageError) {
	m.pulsarMessageError.With(map[string]string{"error": string(error)}).Inc()
}

func (m *Metrics) RecordPulsarConnectionError() {
	m.pulsarConnectionError.Inc()
}

func (m *Metrics) RecordRowsIngested(count int) {
	m.rowsIngested.Add(float64(count))
}
