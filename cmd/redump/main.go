// redump compiles regular expressions and prints the resulting programs.
package main

import (
	"os"

	"github.com/dlclark/reprog/cmd/redump/command"
)

func main() {
	if err := command.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
