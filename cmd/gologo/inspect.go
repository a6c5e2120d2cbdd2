package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xob0t/GoLogo/pkg/logo"
)

type inspectOptions struct {
	jsonOutput bool
}

func newInspectCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <logo>",
		Short: "Validate a logo description and list its choices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, rootFlags, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the normalized description as JSON")

	return cmd
}

func runInspect(cmd *cobra.Command, rootFlags *rootFlags, path string, opts *inspectOptions) error {
	_, log, err := rootFlags.setup(cmd)
	if err != nil {
		return err
	}

	l, cleanup, err := logo.Load(path)
	if err != nil {
		return err
	}
	defer cleanup()
	log.With("path", path).Debug("logo loaded")

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	}
	fmt.Fprint(cmd.OutOrStdout(), logo.Describe(l))
	return nil
}
