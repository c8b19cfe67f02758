package cmd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parity.dev/pkg/parity/internal/adapter"
	"parity.dev/pkg/parity/internal/domain"
	m "parity.dev/pkg/parity/internal/model"
)

func executeRun(t *testing.T, args ...string) error {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(newRunCmd())
	// viper keeps the last bound flags; rebind fresh ones so changed flags do not leak.
	t.Cleanup(func() { newRootCmd() })
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"run"}, args...))

	return cmd.Execute()
}

func TestRunCmd_Defaults(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Test", mock.Anything, mock.MatchedBy(func(args domain.TestArgs) bool {
		return args.Query == "" &&
			args.Corpus.Dir == m.Path("tests") &&
			args.Corpus.SourceExt == ".c" &&
			args.Corpus.Catalog == adapter.CatalogSource{Additional: m.Path("tests/additional_tests.txt")} &&
			args.Toolchain.Reference.String() == "gcc -g -static -o {out} {src}" &&
			args.Toolchain.Candidate.String() == "../scc {src}" &&
			args.Toolchain.CandidateSuffix == ".s" &&
			args.Toolchain.MaxTime == 10*time.Second &&
			args.Toolchain.ReferenceTimeout == 2*time.Minute &&
			assert.ObjectsAreEqual([][]string{{"make", "clean"}, {"make", "scc"}}, args.Prepare) &&
			args.PrepareDir == "." &&
			args.Parallel == 0 &&
			args.Summary == m.Path("tests/total.txt") &&
			args.History == m.Path(".parity-history.db")
	})).Return(nil).Once()

	require.NoError(t, executeRun(t))
}

func TestRunCmd_FlagsAndPattern(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Test", mock.Anything, mock.MatchedBy(func(args domain.TestArgs) bool {
		return args.Query == "fact" &&
			args.Parallel == 4 &&
			args.Toolchain.MaxTime == 3*time.Second &&
			args.Corpus.Dir == m.Path("corpus") &&
			args.Corpus.Catalog.Additional == m.Path("corpus/additional_tests.txt") &&
			args.Summary == m.Path("corpus/total.txt")
	})).Return(nil).Once()

	require.NoError(t, executeRun(t, "-p", "4", "--max-time", "3s", "-d", "corpus", "fact"))
}

func TestRunCmd_EnvironmentOverridesToolchain(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)
	t.Setenv("PARITY_TOOLCHAIN_CANDIDATE", "./mycc -S -o {out} {src}")
	t.Setenv("PARITY_TOOLCHAIN_CANDIDATE_SUFFIX", ".asm")

	mockWorkflow.On("Test", mock.Anything, mock.MatchedBy(func(args domain.TestArgs) bool {
		return args.Toolchain.Candidate.String() == "./mycc -S -o {out} {src}" &&
			args.Toolchain.CandidateSuffix == ".asm"
	})).Return(nil).Once()

	require.NoError(t, executeRun(t))
}

func TestRunCmd_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{name: "zero max time", args: []string{"--max-time", "0s"}, wantErr: runMaxTimeKey},
		{name: "empty reference", env: map[string]string{"PARITY_TOOLCHAIN_REFERENCE": " "}, wantErr: toolchainReferenceKey},
		{name: "unterminated quote", env: map[string]string{"PARITY_TOOLCHAIN_CANDIDATE": "scc 'x"}, wantErr: toolchainCandidateKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWorkflow := withMockWorkflow(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := executeRun(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			mockWorkflow.AssertNotCalled(t, "Test", mock.Anything, mock.Anything)
		})
	}
}

func TestRunCmd_WorkflowErrorIsReturned(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	mockWorkflow.On("Test", mock.Anything, mock.Anything).Return(adapter.ErrRunLocked).Once()

	err := executeRun(t)
	require.True(t, errors.Is(err, adapter.ErrRunLocked))
}
