// Copyright Muninn ECMWF-MARS Contributors (https://github.com/stcorp)
// SPDX-License-Identifier: Apache-2.0

package url

var opts = &options{}

type options struct {
	ProductType string
}

func init() {
	flags := Command.Flags()
	flags.StringVar(&opts.ProductType, "product-type", "ECMWFMARS",
		"Product type used when composing the product name.")
}
