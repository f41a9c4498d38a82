// Package hiclient provides the primary entry point for constructing a
// Hashrate Index GraphQL API client that implements the hashrateindex.Client
// interface.
//
// It normalises configuration and wires the HTTP transport, the operation
// catalog and optional verbose query sinks on top of the types defined in the
// hashrateindex package.
//
// Quick start
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
//
//	  cli, err := hiclient.NewWithKey("", "my-api-key")
//	  if err != nil { log.Fatal(err) }
//
//	  envelope, err := cli.Hashprice(ctx, hashrateindex.Interval1Day, "USD")
//	  if err != nil { log.Fatal(err) }
//
//	  result, err := hiclient.NewResolver(true).Resolve("hashprice", envelope)
//	  if err != nil { log.Fatal(err) }
//	  _ = result.Table
//	}
//
// # Dynamic dispatch
//
// Operations can also be invoked by name with positional string arguments,
// as a command line would pass them:
//
//	envelope, err := cli.Execute(ctx, "get_network_hashrate", []string{"_7_DAYS"})
//
// Names are case-insensitive and may carry a "get_" prefix. Integer
// parameters are converted from text according to the operation's declared
// parameter kinds.
//
// # Errors
//
// Every error can be classified with the helpers in the hashrateindex
// package: IsInvalidArgument, IsOperationNotFound, IsRemote, IsTransport and
// IsMalformedResponse.
package hiclient
