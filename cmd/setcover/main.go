package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	debug bool
}

func newRootCmd() *cobra.Command {
	o := rootOptions{}
	logger := logrus.New()

	cmd := &cobra.Command{
		Use:          "setcover",
		Short:        "Finds minimum set covers",
		Long:         `setcover finds provably minimum set covers with a branch-and-bound search and reports how long each instance took.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetOutput(cmd.ErrOrStderr())
			if o.debug {
				logger.SetLevel(logrus.DebugLevel)
			}
			logger.Debugf("log level %s", logger.Level)
		},
	}

	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "use debug log level")

	cmd.AddCommand(
		newSolveCmd(logger),
		newGenerateCmd(logger),
		newBenchCmd(logger),
		newVerifyCmd(logger),
		newVersionCmd(),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
