//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/svalbard/svbd/app/svbd/internal/cmd"
)

func main() {
	cmd.Initialize()
	os.Exit(cmd.Execute())
}
