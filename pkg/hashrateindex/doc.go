// Package hashrateindex provides types, interfaces, and helpers for working
// with the Hashrate Index GraphQL API.
//
// # Overview
//
// The hashrateindex package defines the client interfaces (OperationsClient,
// DynamicClient, Client, Resolver), the response model (Envelope, Record,
// Table, Result) and the error kinds every operation reports. A concrete
// implementation is provided by the hiclient package, which wires the HTTP
// transport and the operation catalog.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
//	  "github.com/fivetwenty-io/hashrateindex-client/pkg/hiclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := hiclient.New(&hashrateindex.Config{APIKey: "my-api-key"})
//	  if err != nil { log.Fatal(err) }
//
//	  envelope, err := cli.NetworkHashrate(ctx, hashrateindex.Interval7Days)
//	  if err != nil { log.Fatal(err) }
//
//	  records, err := envelope.Records("data", "getNetworkHashrate", "nodes")
//	  if err != nil { log.Fatal(err) }
//	  _ = records
//	}
//
// # Records and tables
//
// Records keep the field order of the server response and hold values as the
// raw JSON that was received, so numbers are never re-typed. Tabulate turns a
// record list into a Table whose columns are the union of record fields in
// encounter order.
//
// # Verbose mode and metrics
//
// With Config.Verbose set, every outgoing query is handed to a QuerySink
// before it is sent. LoggerSink writes queries to the configured Logger;
// NATSSink publishes them to a NATS subject from a background goroutine.
// Metrics installs Prometheus request counters and latency histograms on an
// InterceptorChain.
//
// # Errors
//
// Failures are classified by sentinel: ErrInvalidArgument,
// ErrOperationNotFound, ErrRemote, ErrTransport and ErrMalformedResponse.
// RemoteError, TransportError and MalformedResponseError carry details and
// match their sentinel through errors.Is.
package hashrateindex
