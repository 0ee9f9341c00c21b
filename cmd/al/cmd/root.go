package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alii/al/internal/config"
)

// experimentalIO and experimentalStdLib are bound to persistent flags so
// every subcommand (run, check, build, repl) sees the same gate (§6).
var (
	experimentalIO     bool
	experimentalStdLib bool
)

var rootCmd = &cobra.Command{
	Use:   "al",
	Short: "AL compiler, runtime, and tooling",
	Long: `al compiles and runs AL programs: a statically-typed,
expression-oriented language with type inference, tagged enums, pattern
matching, generics, and unified ?T/T!E optional/error handling.

Usage:
  al run file.al              # check, compile, and execute a program
  al check file.al             # type-check only
  al build file.al              # print the formatted/canonical source
  al fmt file.al                 # format a source file
  al repl                         # interactive session
  al lsp                           # language server over stdio`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&experimentalIO, config.FlagExperimentalIO, false,
		"enable file/tcp built-ins (file_read, tcp_listen, ...)")
	rootCmd.PersistentFlags().BoolVar(&experimentalStdLib, config.FlagExperimentalStdLib, false,
		"compile the len/range/map/filter/reduce prelude ahead of the program")
}
