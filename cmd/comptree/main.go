// # cmd/comptree/main.go
package main

import (
	"os"

	"comptree/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
