// Command batchedit applies bulk edits to engineering models.
package main

import (
	"os"

	"github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
