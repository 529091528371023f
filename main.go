package main

import (
	"texttide/cmd"

	// Commands register themselves on the root command via their init()
	// functions, so they only need to be imported for side effects.
	_ "texttide/cmd/cli"
	_ "texttide/cmd/server"
)

func main() {
	cmd.Execute()
}
