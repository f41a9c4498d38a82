package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
)

// Configuration keys shared by flags, environment and the config file.
const (
	KeyEndpoint    = "endpoint"
	KeyAPIKey      = "key"
	KeyMethod      = "method"
	KeyFunction    = "function"
	KeyQuery       = "query"
	KeyParams      = "params"
	KeyTabular     = "df"
	KeyOutput      = "output"
	KeyVerbose     = "verbose"
	KeyDebug       = "debug"
	KeyLogFile     = "log-file"
	KeyTimeout     = "timeout"
	KeyNATSURL     = "nats-url"
	KeyNATSSubject = "nats-subject"
	KeyMetricsFile = "metrics-file"
	KeyConfig      = "config"
)

// Options is everything the root command needs to run one request.
type Options struct {
	Endpoint    string
	APIKey      string
	Method      string
	Function    string
	Query       string
	Params      string
	Tabular     bool
	Output      string
	Verbose     bool
	Debug       bool
	LogFile     string
	Timeout     time.Duration
	NATSURL     string
	NATSSubject string
	MetricsFile string
}

// LoadOptions reads options from viper, which merges flags, HRINDEX_*
// environment variables and the config file.
func LoadOptions() Options {
	return Options{
		Endpoint:    viper.GetString(KeyEndpoint),
		APIKey:      viper.GetString(KeyAPIKey),
		Method:      viper.GetString(KeyMethod),
		Function:    strings.TrimSpace(viper.GetString(KeyFunction)),
		Query:       viper.GetString(KeyQuery),
		Params:      viper.GetString(KeyParams),
		Tabular:     viper.GetBool(KeyTabular),
		Output:      viper.GetString(KeyOutput),
		Verbose:     viper.GetBool(KeyVerbose),
		Debug:       viper.GetBool(KeyDebug),
		LogFile:     viper.GetString(KeyLogFile),
		Timeout:     viper.GetDuration(KeyTimeout),
		NATSURL:     viper.GetString(KeyNATSURL),
		NATSSubject: viper.GetString(KeyNATSSubject),
		MetricsFile: viper.GetString(KeyMetricsFile),
	}
}

// OutputFormat returns the normalised output format, defaulting to JSON.
func (o Options) OutputFormat() (string, error) {
	format := strings.ToLower(strings.TrimSpace(o.Output))

	switch format {
	case "":
		return constants.FormatJSON, nil
	case constants.FormatJSON, constants.FormatYAML, constants.FormatTable:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrUnsupportedOutputFormat, o.Output)
	}
}
