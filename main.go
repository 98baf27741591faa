package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cmdjson/model/df"
	"cmdjson/model/envconfig"
	"cmdjson/model/input"
	"cmdjson/model/logging"
	"cmdjson/model/magnitude"
	"cmdjson/model/memory"
	"cmdjson/model/output"
)

var env *envconfig.Env
var logger *zap.Logger

func init() {
	var err error

	// 環境変数のロード
	env, err = envconfig.NewEnv()
	if err != nil {
		panic(err)
	}
}

func init() {
	var err error

	// ログは stderr にだけ出す
	logger, err = logging.New(env.LOG_LEVEL)
	if err != nil {
		panic(err)
	}
}

// format is one subcommand: the program whose output it parses.
type format struct {
	name  string
	short string
	// command is what --exec runs.
	command []string
	parse   func(text string, logger *zap.Logger) (any, error)
}

var formats = []format{
	{
		name:    "free",
		short:   "Linux free, to display the amount of free and unused memory",
		command: []string{"free", "-h"},
		parse: func(text string, logger *zap.Logger) (any, error) {
			m, err := memory.ParseFreeCommandResultToMemory(text)
			if err != nil {
				return nil, err
			}
			logger.Debug("parsed free output", zap.Int("records", len(m)))
			return m, nil
		},
	},
	{
		name:    "df",
		short:   "GNU df, a tool to report file system space usage",
		command: []string{"df", "-h"},
		parse: func(text string, logger *zap.Logger) (any, error) {
			if ce := logger.Check(zap.DebugLevel, "df column boundaries"); ce != nil {
				if lines := df.Lines(text); len(lines) > 0 {
					ce.Write(zap.Ints("offsets", df.Boundaries(lines)))
				}
			}
			records, err := df.Parse(text)
			if err != nil {
				return nil, err
			}
			logger.Debug("parsed df output", zap.Int("records", len(records)))
			for _, r := range records {
				if ce := logger.Check(zap.DebugLevel, "filesystem"); ce != nil {
					fields := []zap.Field{zap.Stringp("filesystem", r.Filesystem), zap.Stringp("mounted_on", r.MountedOn)}
					if n, ok := r.Bytes(); ok {
						fields = append(fields, zap.String("size", magnitude.Format(n)))
					}
					ce.Write(fields...)
				}
			}
			return records, nil
		},
	},
}

func newRootCommand(env *envconfig.Env, logger *zap.Logger) *cobra.Command {
	var pretty bool

	root := &cobra.Command{
		Use:   "cmdjson",
		Short: "Parse the output of various command-line programs and convert them to JSON.",
		Long: `Parse the output of various command-line programs and convert them to JSON.

The text is read from stdin, e.g.

    free -h | cmdjson free
    df -h | cmdjson -p df

df columns are found by looking for offsets that are blank in every line.
This is a heuristic: unusual output can split or merge columns.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return errors.New("a subcommand is required: free or df")
		},
	}
	root.PersistentFlags().BoolVarP(&pretty, "pretty", "p", env.PRETTY, "pretty-print the JSON output")

	for _, f := range formats {
		root.AddCommand(newFormatCommand(f, env, logger, &pretty))
	}
	return root
}

func newFormatCommand(f format, env *envconfig.Env, logger *zap.Logger, pretty *bool) *cobra.Command {
	var run bool

	cmd := &cobra.Command{
		Use:   f.name,
		Short: f.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				text string
				err  error
			)
			if run {
				text, err = input.Run(cmd.Context(), env.EXEC_TIMEOUT, f.command[0], f.command[1:]...)
			} else {
				text, err = input.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			logger.Debug("read input",
				zap.String("format", f.name),
				zap.String("size", magnitude.Format(uint64(len(text)))))

			records, err := f.parse(text, logger)
			if err != nil {
				return err
			}
			return output.Encode(cmd.OutOrStdout(), records, *pretty)
		},
	}
	cmd.Flags().BoolVarP(&run, "exec", "x", false, fmt.Sprintf("run %q instead of reading stdin", strings.Join(f.command, " ")))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCommand(env, logger).ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Debug("run failed", zap.String("detail", fmt.Sprintf("%+v", err)))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}
