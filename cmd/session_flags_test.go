package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fiddle/cli/internal/session"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSessionFlags(t *testing.T, argv ...string) (*cobra.Command, *sessionFlags) {
	t.Helper()
	f := &sessionFlags{}
	c := &cobra.Command{Use: "test"}
	f.register(c)
	require.NoError(t, c.Flags().Parse(argv))
	return c, f
}

func TestSessionFlags_Apply(t *testing.T) {
	base := session.Session{Statement: "select 0", Distributed: true, Partitions: 8, PartitionsPerTask: 3}

	tests := []struct {
		name string
		argv []string
		args []string
		want session.Session
	}{
		{
			name: "nothing set keeps base",
			want: base,
		},
		{
			name: "statement from args",
			args: []string{"select", "1;", "select 2"},
			want: base.WithStatement("select 1; select 2"),
		},
		{
			name: "partitions recomputes per task",
			argv: []string{"--partitions", "6"},
			want: session.Session{Statement: "select 0", Distributed: true, Partitions: 6, PartitionsPerTask: 3},
		},
		{
			name: "explicit per task wins after recompute",
			argv: []string{"-p", "10", "--partitions-per-task", "7"},
			want: session.Session{Statement: "select 0", Distributed: true, Partitions: 10, PartitionsPerTask: 7},
		},
		{
			name: "turning distributed off keeps per task",
			argv: []string{"--distributed=false"},
			want: session.Session{Statement: "select 0", Distributed: false, Partitions: 8, PartitionsPerTask: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := parseSessionFlags(t, tt.argv...)
			got, err := f.apply(c, base, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionFlags_DistributedOnResetsPerTask(t *testing.T) {
	base := session.Session{Statement: "x", Partitions: 8, PartitionsPerTask: 1}
	c, f := parseSessionFlags(t, "--distributed")
	got, err := f.apply(c, base, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, got.PartitionsPerTask)
}

func TestSessionFlags_Rejects(t *testing.T) {
	base := session.Default()
	for _, argv := range [][]string{
		{"--partitions", "0"},
		{"--partitions", "11"},
		{"--partitions", "4", "--partitions-per-task", "5"},
		{"--partitions-per-task", "0"},
	} {
		t.Run(strings.Join(argv, " "), func(t *testing.T) {
			c, f := parseSessionFlags(t, argv...)
			_, err := f.apply(c, base, nil)
			assert.Error(t, err)
		})
	}
}

func TestSessionFlags_StatementSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.sql")
	require.NoError(t, os.WriteFile(path, []byte("select 'file'"), 0o600))

	c, f := parseSessionFlags(t, "-f", path)
	got, err := f.apply(c, session.Default(), []string{"ignored"})
	require.NoError(t, err)
	assert.Equal(t, "select 'file'", got.Statement)

	c, f = parseSessionFlags(t, "--file", "-")
	c.SetIn(strings.NewReader("select 'stdin'"))
	got, err = f.apply(c, session.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, "select 'stdin'", got.Statement)

	c, f = parseSessionFlags(t, "-f", filepath.Join(t.TempDir(), "missing.sql"))
	_, err = f.apply(c, session.Default(), nil)
	assert.Error(t, err)
}
