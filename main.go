// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/cmdresolve/cmd/cmdresolve"

func main() {
	cmd.Execute()
}
