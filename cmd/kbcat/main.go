// Command kbcat synchronises a CSV catalog with a knowledge-base
// directory tree, resolving document metadata through a local LLM.
package main

import (
	"fmt"
	"os"

	"github.com/reliefkit/kbcat/internal/adapters/driving/cli"
)

// version is overridden at build time:
//
//	go build -ldflags "-X main.version=v1.2.3" ./cmd/kbcat
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
