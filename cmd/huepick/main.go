// huepick - Pick a colour palette from a photo
//
// huepick streams pixel clusters from an extraction engine and reduces the
// engine's final answer to a small, visually distinct palette.
package main

import (
	"github.com/jmylchreest/huepick/internal/cli"
)

func main() {
	cli.Execute()
}
