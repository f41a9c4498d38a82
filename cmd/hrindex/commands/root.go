package commands

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
)

// reportedError has already been logged at CRITICAL level.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// NewRootCommand creates the hrindex command with its flags bound to viper
// and every subcommand attached.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hrindex",
		Short: "Hashrate Index GraphQL API client",
		Long: `A command-line client for the Hashrate Index GraphQL API.

Run a catalog operation with --function and comma-separated --params, or a raw
GraphQL document with --query. Use "hrindex operations" to list functions.`,
		Example: `  hrindex -f hashprice -p _7_DAYS,usd
  hrindex -f ohlc_prices -p _1_MONTH -d -o table
  hrindex -q '{ bitcoinOverviews(last: 1) { nodes { timestamp } } }'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String(KeyConfig, "", "config file (default is $HOME/.hrindex/config.yml)")
	flags.StringP(KeyEndpoint, "e", constants.DefaultEndpoint, "GraphQL endpoint URL")
	flags.StringP(KeyAPIKey, "k", "", "Hashrate Index API key")
	flags.StringP(KeyMethod, "m", constants.DefaultMethod, "HTTP method")
	flags.StringP(KeyOutput, "o", "", "output format (json, yaml, table)")
	flags.BoolP(KeyVerbose, "v", false, "log every GraphQL query before it is sent")
	flags.Bool(KeyDebug, false, "log HTTP requests and responses")
	flags.String(KeyLogFile, constants.DefaultLogFile, "append log output to this file (empty disables)")
	flags.Duration(KeyTimeout, constants.DefaultHTTPTimeout, "HTTP request timeout")
	flags.String(KeyNATSURL, "", "publish every query to this NATS server")
	flags.String(KeyNATSSubject, constants.DefaultNATSSubject, "NATS subject for published queries")
	flags.String(KeyMetricsFile, "", "write Prometheus request metrics to this file")

	// Request flags
	local := rootCmd.Flags()
	local.StringP(KeyFunction, "f", "", "operation to run (see \"hrindex operations\")")
	local.StringP(KeyQuery, "q", "", "raw GraphQL query")
	local.StringP(KeyParams, "p", "", "comma-separated arguments for --function, or a JSON object of variables for --query")
	local.BoolP(KeyTabular, "d", false, "reshape the result into a table")

	// Bind flags to viper
	_ = viper.BindPFlags(flags)
	_ = viper.BindPFlags(local)

	// Add commands
	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewOperationsCommand())
	rootCmd.AddCommand(NewConfigureCommand())
	rootCmd.AddCommand(NewServeMCPCommand(version))

	return rootCmd
}

func runRoot(cmd *cobra.Command, _ []string) error {
	opts := LoadOptions()

	logger, err := NewLogger(cmd.ErrOrStderr(), opts.LogFile, opts.Debug)
	if err != nil {
		return err
	}

	defer func() { _ = logger.Close() }()

	err = Run(cmd.Context(), opts, cmd.OutOrStdout(), logger)
	if err != nil {
		logger.Critical(err)

		return reportedError{err}
	}

	return nil
}

// ExitCode maps the result of executing the root command to a process exit
// status. Errors the root command has not logged yet are logged at CRITICAL
// level to stderr.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	var reported reportedError
	if !errors.As(err, &reported) {
		logger, logErr := NewLogger(stderr, "", false)
		if logErr == nil {
			logger.Critical(err)
		}
	}

	return 1
}
