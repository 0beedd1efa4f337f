// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package url

import (
	"errors"

	"github.com/spf13/cobra"

	ecmwfmars "github.com/stcorp/muninn-ecmwfmars"
)

var Command = &cobra.Command{
	Use:   "url <file>",
	Short: "Print the remote locator of a GRIB product",
	Long: `This command extracts the ecmwfmars properties of a GRIB file, derives its
core properties and prints the canonical ecmwfapi locator under which the
product can be re-retrieved from MARS.

Usage example:

	ecmwfmars url --product-type T2M product.grib

`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("exactly one file path is required")
		}

		return runCommand(cmd, args[0])
	},
}

func runCommand(cmd *cobra.Command, path string) error {
	props, err := ecmwfmars.ExtractGribMetadata(path)
	if err != nil {
		return err
	}

	core, err := ecmwfmars.GetCoreProperties(opts.ProductType, props)
	if err != nil {
		return err
	}

	if core.RemoteURL == "" {
		return errors.New("product carries no level type or parameter list")
	}

	cmd.Println(core.RemoteURL)

	return nil
}
