package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parity.dev/pkg/parity/internal/domain"
	m "parity.dev/pkg/parity/internal/model"
)

func TestListCmd_PassesPatternAndCorpus(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("List", mock.Anything, mock.MatchedBy(func(args domain.ListArgs) bool {
		return args.Query == "sort" && args.Corpus.Dir == m.Path("tests")
	})).Return(nil).Once()

	cmd.SetArgs([]string{"list", "sort"})
	require.NoError(t, cmd.Execute())
}

func TestListCmd_WithoutPattern(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("List", mock.Anything, mock.MatchedBy(func(args domain.ListArgs) bool {
		return args.Query == ""
	})).Return(nil).Once()

	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())
}
