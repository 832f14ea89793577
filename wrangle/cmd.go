package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "SPIRV_INFO"

type options struct {
	GrammarPath string
	HeaderPath  string
	SourcePath  string
	Dump        io.Writer
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "wrangle",
		Short: "Generate string lookups for SPIR-V enums",
		Long: `Generate spirv_info.h and spirv_info.c from the SPIR-V core grammar.

For each of a fixed list of operand kinds, plus the instruction opcodes, this
writes a function that turns an enum value into the name of its spirv.h
constant. Values that the grammar lists more than once, and instruction
aliases, only get a case for the first name the grammar gives them.

Every flag can also be set through the environment, for example
SPIRV_INFO_JSON or SPIRV_INFO_OUT_H.

Examples:
  wrangle --json spirv.core.grammar.json --out-h spirv_info.h --out-c spirv_info.c
  wrangle check --json spirv.core.grammar.json --out-h spirv_info.h --out-c spirv_info.c`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogger(v.GetBool("verbose"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFrom(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			kinds, err := loadAndCollect(opts)
			if err != nil {
				return err
			}
			return generateCFragments(opts.HeaderPath, opts.SourcePath, kinds)
		},
	}

	flags := root.PersistentFlags()
	flags.String("json", "", "SPIR-V grammar JSON file")
	flags.String("out-h", "", "Output H file")
	flags.String("out-c", "", "Output C file")
	flags.Bool("dump", false, "Dump the collected kinds to stderr")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	// BindPFlags only fails for a nil flag set.
	_ = v.BindPFlags(flags)

	root.AddCommand(newCheckCmd(v))
	return root
}

func newCheckCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the generated files are up to date",
		Long: `Check that spirv_info.h and spirv_info.c match what the grammar generates.

The files are rendered in memory and compared byte for byte with the ones on
disk. Nothing is written.

Exit codes:
  0 - files are up to date
  1 - files are missing or out of date, or the grammar can't be used`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFrom(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			kinds, err := loadAndCollect(opts)
			if err != nil {
				return err
			}
			stale, err := staleCFragments(opts.HeaderPath, opts.SourcePath, kinds)
			if err != nil {
				return err
			}
			if len(stale) > 0 {
				return errors.WithHint(
					errors.Wrapf(errOutOfDate, "%s", strings.Join(stale, ", ")),
					"run wrangle without the check subcommand to regenerate them",
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "generated files are up to date")
			return nil
		},
	}
}

func optionsFrom(v *viper.Viper, stderr io.Writer) (options, error) {
	opts := options{
		GrammarPath: v.GetString("json"),
		HeaderPath:  v.GetString("out-h"),
		SourcePath:  v.GetString("out-c"),
	}
	if v.GetBool("dump") {
		opts.Dump = stderr
	}

	var missing []string
	for _, req := range []struct{ flag, val string }{
		{"--json", opts.GrammarPath},
		{"--out-h", opts.HeaderPath},
		{"--out-c", opts.SourcePath},
	} {
		if req.val == "" {
			missing = append(missing, req.flag)
		}
	}
	if len(missing) > 0 {
		return opts, errors.WithHintf(
			errors.Wrapf(errUsage, "missing required flags %s", strings.Join(missing, ", ")),
			"each flag can also be set through a %s_* environment variable", envPrefix,
		)
	}
	return opts, nil
}

func loadAndCollect(opts options) ([]CollectedKind, error) {
	g, err := loadGrammar(opts.GrammarPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load grammar")
	}
	kinds, err := collectAll(g, requestedKinds)
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect kinds")
	}
	if opts.Dump != nil {
		spew.Fdump(opts.Dump, kinds)
	}
	return kinds, nil
}
