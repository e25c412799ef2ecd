package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fiddle/cli/internal/session"

	"github.com/spf13/cobra"
)

// sessionFlags are the flags that edit a session before it is run or shared.
type sessionFlags struct {
	file        string
	distributed bool
	partitions  int
	perTask     int
	link        string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "Read statements from a file (- for stdin)")
	fl.BoolVar(&f.distributed, "distributed", false, "Use distributed scheduling")
	fl.IntVarP(&f.partitions, "partitions", "p", session.DefaultPartitions, fmt.Sprintf("Partition count (%d-%d)", session.MinPartitions, session.MaxPartitions))
	fl.IntVar(&f.perTask, "partitions-per-task", 0, "Partitions per task when distributed (1-partitions)")
	fl.StringVar(&f.link, "link", "", "Start from a share link or token")
}

// apply edits base with the statement arguments and the flags the user set.
// A partitions change recomputes partitions-per-task, and so does turning
// distributed on, before an explicit --partitions-per-task is applied.
func (f *sessionFlags) apply(cmd *cobra.Command, base session.Session, args []string) (session.Session, error) {
	s := base
	stmt, ok, err := f.statement(cmd.InOrStdin(), args)
	if err != nil {
		return s, err
	}
	if ok {
		s = s.WithStatement(stmt)
	}

	fl := cmd.Flags()
	if fl.Changed("partitions") {
		if f.partitions < session.MinPartitions || f.partitions > session.MaxPartitions {
			return s, fmt.Errorf("--partitions must be between %d and %d", session.MinPartitions, session.MaxPartitions)
		}
		s = s.WithPartitions(f.partitions)
	}
	if fl.Changed("distributed") {
		s = s.WithDistributed(f.distributed)
	}
	if fl.Changed("partitions-per-task") {
		if f.perTask < 1 || f.perTask > s.Partitions {
			return s, fmt.Errorf("--partitions-per-task must be between 1 and %d", s.Partitions)
		}
		s = s.WithPartitionsPerTask(f.perTask)
	}
	return s, nil
}

func (f *sessionFlags) statement(stdin io.Reader, args []string) (string, bool, error) {
	switch {
	case f.file == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("read stdin: %w", err)
		}
		return string(b), true, nil
	case f.file != "":
		b, err := os.ReadFile(f.file)
		if err != nil {
			return "", false, fmt.Errorf("read statements: %w", err)
		}
		return string(b), true, nil
	case len(args) > 0:
		return strings.Join(args, " "), true, nil
	}
	return "", false, nil
}
