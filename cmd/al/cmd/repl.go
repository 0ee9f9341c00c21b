package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alii/al/internal/replcmd"
)

var replConfigPath string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive AL session",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().StringVar(&replConfigPath, "config", "", "path to a REPL config file (yaml)")
}

func runRepl(_ *cobra.Command, _ []string) error {
	cfg, err := replcmd.LoadConfig(replConfigPath)
	if err != nil {
		return err
	}
	if experimentalIO {
		cfg.IOEnabled = true
	}
	if experimentalStdLib {
		cfg.StdLibEnabled = true
	}

	r := replcmd.New(replcmd.Options{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
		Cfg: cfg,
	})
	return r.Run()
}
