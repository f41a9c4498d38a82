package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/hashrateindex-client/internal/constants"
	"github.com/fivetwenty-io/hashrateindex-client/pkg/hiclient"
)

// ConfigFileName is the file written under the config directory.
const ConfigFileName = "config.yml"

// FileConfig is the persisted subset of Options.
type FileConfig struct {
	Endpoint string `yaml:"endpoint"`
	Key      string `yaml:"key"`
	Method   string `yaml:"method,omitempty"`
}

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Store the endpoint and API key in the config file",
		Long: `Write the endpoint and API key to $HOME/.hrindex/config.yml (or --config).
The key is taken from --key or prompted for without echo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := viper.GetString(KeyAPIKey)
			if key == "" {
				prompted, err := promptKey(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}

				key = prompted
			}

			path, err := ConfigPath()
			if err != nil {
				return err
			}

			config := FileConfig{
				Endpoint: hiclient.NormalizeEndpoint(viper.GetString(KeyEndpoint)),
				Key:      key,
				Method:   strings.ToUpper(viper.GetString(KeyMethod)),
			}
			if config.Method == constants.DefaultMethod {
				config.Method = ""
			}

			err = SaveConfig(path, config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)

			return nil
		},
	}
}

// ConfigPath returns --config, the file viper loaded, or $HOME/.hrindex/config.yml.
func ConfigPath() (string, error) {
	if path := viper.GetString(KeyConfig); path != "" {
		return path, nil
	}

	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, ConfigFileName), nil
}

// SaveConfig writes config as YAML, creating the parent directory.
func SaveConfig(path string, config FileConfig) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// promptKey reads the API key without echo on a terminal, or one line otherwise.
func promptKey(in io.Reader, prompt io.Writer) (string, error) {
	_, _ = fmt.Fprint(prompt, "API key: ")

	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		key, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(prompt)

		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}

		return strings.TrimSpace(string(key)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	return strings.TrimSpace(line), nil
}
