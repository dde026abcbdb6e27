package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lan-tools/net-atlas/pkg/runtime/terminal/commands"
	"github.com/lan-tools/net-atlas/pkg/runtime/terminal/export"
)

// CLI represents the command-line interface
type CLI struct {
	factory  commands.RunnerFactory
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Factory commands.RunnerFactory
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		factory:  opts.Factory,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "net-atlas",
		Short: "Network security audit tool",
	}

	cmd.AddCommand(commands.NewAuditCmd(cli.factory, cli.reporter))
	cmd.AddCommand(commands.NewSitesCmd())

	return cmd
}
