package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.AddCommand(newVersionCmd())
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())

	output := out.String()
	if output == "version: unknown\n" {
		return
	}

	assert.Regexp(t, `(?m)^parity version\t \S+$`, output)
	assert.Regexp(t, `(?m)^go version\t go\S+$`, output)
}

func TestSubcommands_ArgumentValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "run takes one pattern", args: []string{"run", "fact", "queens"}, wantErr: "accepts at most 1 arg(s)"},
		{name: "list takes one pattern", args: []string{"list", "fact", "queens"}, wantErr: "accepts at most 1 arg(s)"},
		{name: "history takes flags only", args: []string{"history", "fact"}, wantErr: "unknown command"},
		{name: "init takes nothing", args: []string{"init", "parity.yaml"}, wantErr: "unknown command"},
		{name: "version takes nothing", args: []string{"version", "1"}, wantErr: "unknown command"},
		{name: "history limit is numeric", args: []string{"history", "--limit", "many"}, wantErr: "invalid argument"},
		{name: "parallel is numeric", args: []string{"run", "-p", "four"}, wantErr: "invalid argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Any workflow call fails the test.
			withMockWorkflow(t)

			cmd := newRootCmd()
			cmd.AddCommand(newRunCmd(), newListCmd(), newHistoryCmd(), newInitCmd(), newVersionCmd())
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			t.Cleanup(func() { newRootCmd() })

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
