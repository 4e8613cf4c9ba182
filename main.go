package main

import (
	"os"

	"github.com/mirage-lang/mirage/cli"
)

func main() {
	os.Exit(cli.Execute())
}
