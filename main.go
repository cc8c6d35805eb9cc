// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/fpz/fpz/cmd/fpz"

func main() {
	cmd.Execute()
}
