package temporal

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
)

// ClientConfig holds the Temporal frontend coordinates.
type ClientConfig struct {
	Address   string
	Namespace string
}

// Dial connects to Temporal with structured logging and OTel tracing.
func Dial(cfg ClientConfig, logger *slog.Logger, tracer trace.Tracer) (client.Client, error) {
	options := client.Options{
		HostPort:  cfg.Address,
		Namespace: cfg.Namespace,
	}
	if options.HostPort == "" {
		options.HostPort = client.DefaultHostPort
	}
	if options.Namespace == "" {
		options.Namespace = client.DefaultNamespace
	}
	if logger != nil {
		options.Logger = workerlog.NewStructuredLogger(logger)
	}
	if tracer != nil {
		interceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: tracer})
		if err != nil {
			return nil, fmt.Errorf("temporal tracing interceptor: %w", err)
		}
		options.Interceptors = append(options.Interceptors, interceptor)
	}
	c, err := client.Dial(options)
	if err != nil {
		return nil, fmt.Errorf("temporal dial %s: %w", options.HostPort, err)
	}
	return c, nil
}
