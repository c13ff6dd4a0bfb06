// grubix - an interactive 3x3 cube for the terminal.
package main

import (
	"github.com/bebora/grubix/internal/cli"
)

func main() {
	cli.Execute()
}
