// Command synthfill is a terminal front-end for the patch-based
// inpainting engine in pkg/synthesis.
package main

import (
	"os"

	"github.com/Fepozopo/synthfill/pkg/cli"
)

func main() {
	if home, err := os.UserHomeDir(); err == nil {
		_ = cli.LoadDotEnv(home + "/.synthfill.env")
	}
	cli.RunCLI()
}
