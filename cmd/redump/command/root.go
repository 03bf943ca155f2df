package command

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"

	"github.com/dlclark/reprog"
)

var (
	compileArgs = struct {
		IgnoreCase bool
		Singleline bool
		Collate    bool
		Locale     string
	}{
		Locale: "en",
	}

	logArgs = struct {
		Level   string
		NoColor bool
	}{
		Level: "warn",
	}

	Root = &cobra.Command{
		Use:   "redump",
		Short: "redump compiles regular expressions and prints the programs they compile to.",
		Long: "`redump` runs the regular expression compiler on each pattern given and prints\n" +
			"the node program together with the start maps, lookbehind widths and restart\n" +
			"classification computed for it.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), logArgs.Level, logArgs.NoColor)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}
)

func init() {
	registerCompileFlags(Root.PersistentFlags())

	Root.AddCommand(Dump)
	Root.AddCommand(Choices)
}

func registerCompileFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&compileArgs.IgnoreCase, "icase", "i", compileArgs.IgnoreCase, "Compile case-insensitively.")
	fs.BoolVarP(&compileArgs.Singleline, "singleline", "s", compileArgs.Singleline, "Let . match newlines.")
	fs.BoolVar(&compileArgs.Collate, "collate", compileArgs.Collate, "Compare bracket ranges by collation order.")
	fs.StringVar(&compileArgs.Locale, "locale", compileArgs.Locale, "BCP 47 language tag used for collation.")
	fs.StringVar(&logArgs.Level, "log-level", logArgs.Level, "Log level: debug, info, warn or error.")
	fs.BoolVar(&logArgs.NoColor, "no-color", logArgs.NoColor, "Disable colored log output.")
}

func options() reprog.RegexOptions {
	var opt reprog.RegexOptions
	if compileArgs.IgnoreCase {
		opt |= reprog.IgnoreCase
	}
	if compileArgs.Singleline {
		opt |= reprog.Singleline
	}
	if compileArgs.Collate {
		opt |= reprog.Collate
	}
	return opt
}

// compile builds pattern with the options from the command line.
func compile(pattern string) (*reprog.Regexp, error) {
	tag, err := language.Parse(compileArgs.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid --locale %q: %w", compileArgs.Locale, err)
	}
	re, err := reprog.CompileLocale(pattern, options(), tag)
	if err != nil {
		slog.Error("compile failed", "pattern", pattern, "err", err)
		return nil, err
	}
	slog.Info("compiled", "pattern", pattern, "nodes", len(re.Program().Nodes()))
	return re, nil
}
