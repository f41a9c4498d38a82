package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
)

// VersionInfo describes the build.
type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit"  yaml:"commit"`
	Built   string `json:"built"   yaml:"built"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the hrindex CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			out := cmd.OutOrStdout()

			switch viper.GetString(KeyOutput) {
			case constants.FormatJSON:
				return writeJSON(out, info)
			case constants.FormatYAML:
				return writeYAML(out, info)
			default:
				err := renderTable(out, []string{"Property", "Value"}, [][]string{
					{"Version", version},
					{"Commit", commit},
					{"Built", date},
				})
				if err != nil {
					return fmt.Errorf("failed to render version: %w", err)
				}
			}

			return nil
		},
	}
}
