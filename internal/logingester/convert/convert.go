package convert

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/princess-entrapta/logsearcher/internal/common/ingest/metrics"
	"github.com/princess-entrapta/logsearcher/internal/logingester/model"
	"github.com/princess-entrapta/logsearcher/internal/logingester/tokenize"
)

// Converter turns raw queue payloads into normalized log rows. Each payload
// is expected to be a JSON array of log objects.
type Converter struct {
	tokenizer *tokenize.Tokenizer
	metrics   *metrics.Metrics
}

func NewConverter(tokenizer *tokenize.Tokenizer, m *metrics.Metrics) *Converter {
	return &Converter{tokenizer: tokenizer, metrics: m}
}

// Convert decodes one message payload into rows. A payload that does not
// parse as a JSON array is treated as an empty array so that a bad message
// never takes down the worker; the delivery still gets acked by the caller.
// Array elements that are not objects are skipped.
func (c *Converter) Convert(payload []byte) []model.LogRow {
	var elements []any
	if err := json.Unmarshal(payload, &elements); err != nil {
		c.metrics.RecordPulsarMessageError(metrics.PulsarMessageErrorDeserialization)
		log.WithError(err).Warn("Could not decode message payload as a JSON array, dropping it")
		return nil
	}

	rows := make([]model.LogRow, 0, len(elements))
	for _, element := range elements {
		obj, ok := element.(map[string]any)
		if !ok {
			c.metrics.RecordPulsarMessageError(metrics.PulsarMessageErrorProcessing)
			continue
		}
		rows = append(rows, c.tokenizer.Normalize(obj))
	}
	return rows
}
