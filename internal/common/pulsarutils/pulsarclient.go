package pulsarutils

import (
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	pulsarlog "github.com/apache/pulsar-client-go/pulsar/log"
	"github.com/sirupsen/logrus"
)

type PulsarConfig struct {
	// Pulsar service URL, e.g. pulsar://localhost:6650
	URL string
	// Topic log event arrays are published to
	LogEventsTopic string
	// Maximum time to wait for a single message before polling again
	ReceiveTimeout time.Duration
	// Time to wait before retrying after a receive error
	BackoffTime time.Duration
	// Size of the consumer's receive queue
	ReceiverQueueSize          int
	MaxConnectionsPerBroker    int
	TLSTrustCertsFilePath      string
	TLSValidateHostname        bool
	TLSAllowInsecureConnection bool
}

func NewPulsarClient(config *PulsarConfig) (pulsar.Client, error) {
	return pulsar.NewClient(pulsar.ClientOptions{
		URL:                        config.URL,
		TLSTrustCertsFilePath:      config.TLSTrustCertsFilePath,
		TLSValidateHostname:        config.TLSValidateHostname,
		TLSAllowInsecureConnection: config.TLSAllowInsecureConnection,
		MaxConnectionsPerBroker:    config.MaxConnectionsPerBroker,
		Logger:                     pulsarlog.NewLoggerWithLogrus(logrus.StandardLogger()),
	})
}
