package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })

	return dir
}

func executeInit(t *testing.T) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.AddCommand(newInitCmd())
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"init"})

	err := cmd.Execute()

	return out.String(), err
}

func TestInitCmd_WritesHarnessDefaults(t *testing.T) {
	dir := chdirTemp(t)

	output, err := executeInit(t)
	require.NoError(t, err)
	assert.Contains(t, output, "wrote "+configFileName)

	written := viper.New()
	written.SetConfigFile(filepath.Join(dir, configFileName))
	require.NoError(t, written.ReadInConfig())

	assert.Equal(t, currentConfigVersion, written.GetInt(configVersionKey))
	assert.Equal(t, "tests", written.GetString(corpusDirKey))
	assert.Equal(t, "additional_tests.txt", written.GetString(corpusAdditionalKey))
	assert.Equal(t, "gcc -g -static -o {out} {src}", written.GetString(toolchainReferenceKey))
	assert.Equal(t, "../scc {src}", written.GetString(toolchainCandidateKey))
	assert.Equal(t, ".s", written.GetString(toolchainCandidateSuffixKey))
	assert.Equal(t, []string{"make clean", "make scc"}, written.GetStringSlice(toolchainPrepareKey))
	assert.Equal(t, 10*time.Second, written.GetDuration(runMaxTimeKey))
	assert.Equal(t, 2*time.Minute, written.GetDuration(runReferenceTimeoutKey))
	assert.Equal(t, "total.txt", written.GetString(reportSummaryKey))
	assert.Equal(t, ".parity-history.db", written.GetString(historyPathKey))
}

func TestInitCmd_WrittenPrepareCommandsSplit(t *testing.T) {
	dir := chdirTemp(t)

	_, err := executeInit(t)
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(dir, configFileName))
	require.NoError(t, err)

	written := viper.New()
	written.SetConfigType("yaml")
	require.NoError(t, written.ReadConfig(bytes.NewReader(contents)))

	prepare, err := parsePrepare(written.GetStringSlice(toolchainPrepareKey))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"make", "clean"}, {"make", "scc"}}, prepare)
}

func TestInitCmd_KeepsExistingConfig(t *testing.T) {
	dir := chdirTemp(t)

	targetPath := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(targetPath, []byte("corpus:\n  dir: mytests\n"), 0o644))

	_, err := executeInit(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config file")

	contents, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, "corpus:\n  dir: mytests\n", string(contents))
}
