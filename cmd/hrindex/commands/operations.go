package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hashrateindex"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hiclient"
)

// NewOperationsCommand creates the operations command.
func NewOperationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "operations",
		Aliases: []string{"ops", "functions"},
		Short:   "List the operations accepted by --function",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(viper.GetString(KeyOutput))
			if format == "" {
				format = constants.FormatTable
			}

			return writeOperations(cmd.OutOrStdout(), format, hiclient.Operations())
		},
	}
}

func writeOperations(out io.Writer, format string, infos []hashrateindex.OperationInfo) error {
	switch format {
	case constants.FormatJSON:
		return writeJSON(out, infos)
	case constants.FormatYAML:
		return writeYAML(out, infos)
	case constants.FormatTable:
		title := cases.Title(language.English)
		rows := make([][]string, 0, len(infos))

		for _, info := range infos {
			rows = append(rows, []string{
				info.Name,
				title.String(strings.ReplaceAll(info.Name, "_", " ")),
				describeParams(info.Params),
				strings.Join(info.Path, "."),
			})
		}

		return renderTable(out, []string{"Function", "Name", "Arguments", "Path"}, rows)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutputFormat, format)
	}
}

// describeParams renders parameters in call order; optional ones are bracketed.
func describeParams(params []hashrateindex.ParamInfo) string {
	parts := make([]string, 0, len(params))

	for _, param := range params {
		if param.Required {
			parts = append(parts, param.Name)

			continue
		}

		parts = append(parts, fmt.Sprintf("[%s=%v]", param.Name, param.Default))
	}

	return strings.Join(parts, constants.ArgumentSeparator)
}
