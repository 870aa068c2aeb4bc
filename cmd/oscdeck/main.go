// Command oscdeck talks to OSC control surfaces.
package main

import (
	"github.com/oscdeck/oscdeck/cmd/oscdeck/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
