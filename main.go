package main

import (
	"os"

	"supportrag/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
