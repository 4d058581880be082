// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/slipway-dev/slipway/cmd/slipway"

func main() {
	cmd.Execute()
}
