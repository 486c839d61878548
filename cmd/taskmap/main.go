// Command taskmap decodes, encodes and checkpoints task records.
package main

import (
	"os"

	"github.com/reoring/taskmap/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
