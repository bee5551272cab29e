package main

import (
	"fmt"
	"os"

	"pluginbuilder/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:], cli.DefaultConfig()); err != nil {
		fmt.Fprintln(os.Stderr, "pluginbuilder:", err)
		os.Exit(1)
	}
}
