package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/operator-framework/setcover/pkg/generate"
	"github.com/operator-framework/setcover/pkg/instance"
)

type generateOptions struct {
	config generate.Config
	out    string
}

func newGenerateCmd(logger *logrus.Logger) *cobra.Command {
	o := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Writes a random instance file",
		Long: `Writes a random instance named after its parameters, for example s-c-padded-100-150.txt.

Unpadded instances draw every set at random and then add each element no set
contains to a random set. Padded instances end with one singleton set per
element.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&o.config.Elements, "elements", 100, "number of elements in the universe")
	cmd.Flags().IntVar(&o.config.Sets, "sets", 0, "number of sets")
	cmd.Flags().IntVar(&o.config.SetSize, "set-size", generate.DefaultSetSize, "number of elements sampled into each random set")
	cmd.Flags().BoolVarP(&o.config.Padded, "padded", "p", false, "append a singleton set for every element")
	cmd.Flags().Int64Var(&o.config.Seed, "seed", 0, "seed for the random number generator")
	cmd.Flags().StringVar(&o.out, "out", ".", "directory to write the instance to")
	if err := cmd.MarkFlagRequired("sets"); err != nil {
		logger.Fatalf("Failed to mark `sets` flag for `generate` subcommand as required")
	}

	return cmd
}

func (o *generateOptions) run(logger logrus.FieldLogger, out io.Writer) error {
	in, err := generate.Generate(o.config)
	if err != nil {
		return err
	}

	path := filepath.Join(o.out, generate.Name(o.config)+".txt")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := instance.Write(f, in); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", path)
	}

	logger.WithFields(logrus.Fields{
		"elements": o.config.Elements,
		"sets":     o.config.Sets,
		"seed":     o.config.Seed,
	}).Info("generated instance")
	_, err = fmt.Fprintln(out, path)
	return err
}
