package commands

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hiclient"
)

// Session owns the client configuration of one CLI invocation together with
// its query sinks and metrics registry.
type Session struct {
	config      *hashrateindex.Config
	registry    *prometheus.Registry
	metricsFile string
	natsSink    *hashrateindex.NATSSink
}

// NewSession builds the client configuration for opts. Verbose mode logs
// every query through logger; a NATS URL adds a publishing sink and a
// metrics file installs the Prometheus interceptors.
func NewSession(opts Options, logger hashrateindex.Logger) (*Session, error) {
	s := &Session{
		config: &hashrateindex.Config{
			Endpoint:    opts.Endpoint,
			APIKey:      opts.APIKey,
			Method:      opts.Method,
			HTTPTimeout: opts.Timeout,
			Debug:       opts.Debug,
			Logger:      logger,
		},
		metricsFile: opts.MetricsFile,
	}

	if opts.MetricsFile != "" {
		s.registry = prometheus.NewRegistry()

		metrics, err := hashrateindex.NewMetrics(s.registry)
		if err != nil {
			return nil, err
		}

		chain := hashrateindex.NewInterceptorChain()
		metrics.Install(chain)
		s.config.Interceptors = chain
	}

	var sinks hashrateindex.MultiSink

	if opts.Verbose {
		sinks = append(sinks, hashrateindex.NewLoggerSink(logger))
	}

	if opts.NATSURL != "" {
		subject := opts.NATSSubject
		if subject == "" {
			subject = constants.DefaultNATSSubject
		}

		natsSink, err := hashrateindex.ConnectNATSSink(opts.NATSURL, subject, logger)
		if err != nil {
			return nil, err
		}

		s.natsSink = natsSink
		sinks = append(sinks, natsSink)
	}

	if len(sinks) > 0 {
		s.config.Verbose = true
		s.config.QuerySink = sinks
	}

	return s, nil
}

// Config returns the client configuration.
func (s *Session) Config() *hashrateindex.Config {
	return s.config
}

// Client creates a client from the session configuration.
func (s *Session) Client() (hashrateindex.Client, error) {
	return hiclient.New(s.config)
}

// Close flushes queued queries and writes the metrics file.
func (s *Session) Close() error {
	var errs []error

	if s.natsSink != nil {
		errs = append(errs, s.natsSink.Close())
	}

	if s.registry != nil {
		errs = append(errs, hashrateindex.WriteMetricsFile(s.metricsFile, s.registry))
	}

	return errors.Join(errs...)
}
