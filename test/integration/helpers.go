//go:build integration

package integration

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	Endpoint    string
	APIKey      string
	HrindexPath string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Endpoint:    os.Getenv("HRINDEX_ENDPOINT"),
		APIKey:      os.Getenv("HRINDEX_KEY"),
		HrindexPath: getHrindexPath(),
		Verbose:     os.Getenv("HRINDEX_TEST_VERBOSE") == "true",
	}
}

// getHrindexPath determines the path to the hrindex binary.
func getHrindexPath() string {
	if path := os.Getenv("HRINDEX_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../hrindex",
		"./hrindex",
		"../hrindex",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "hrindex"
}

// SkipIfMissingKey skips tests that talk to the live API.
func (config *TestConfig) SkipIfMissingKey(t *testing.T) {
	t.Helper()

	if config.APIKey == "" {
		t.Skip("HRINDEX_KEY not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips tests that run the CLI.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	config.SkipIfMissingKey(t)

	if _, err := exec.LookPath(config.HrindexPath); err != nil {
		t.Skipf("hrindex binary not found at %s, skipping integration test", config.HrindexPath)
	}
}

// CommandRunner runs hrindex with the configured endpoint and key.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes hrindex and returns its output. The request log is disabled.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--key", runner.config.APIKey, "--log-file", ""}, args...)
	if runner.config.Endpoint != "" {
		args = append([]string{"--endpoint", runner.config.Endpoint}, args...)
	}

	cmd := exec.Command(runner.config.HrindexPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.HrindexPath, strings.Join(args[2:], " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// AssertJSONOutput verifies command output looks like JSON.
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}
