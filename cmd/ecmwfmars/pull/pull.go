// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package pull

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/stcorp/muninn-ecmwfmars/backend"
)

var Command = &cobra.Command{
	Use:   "pull <locator>",
	Short: "Retrieve a product from MARS by its remote locator",
	Long: `This command drives the ecmwfapi remote backend directly: it submits the
MARS requests encoded in the locator, waits for the jobs and stages the
result into the output directory.

The service endpoint and credentials are read from the ECMWFMARS_SERVICE_*
environment variables.

Usage example:

	ecmwfmars pull --output /data 'ecmwfapi:product.grib?class=od&...'

`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("exactly one locator is required")
		}

		return runCommand(cmd, args[0])
	},
}

func runCommand(cmd *cobra.Command, locator string) error {
	cfg, err := backend.LoadConfig()
	if err != nil {
		return err
	}

	b, err := backend.New(*cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	path, err := b.Pull(ctx, locator, opts.Output)
	if err != nil {
		return err
	}

	cmd.Println(path)

	return nil
}
