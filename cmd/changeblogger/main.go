package main

import (
	"os"

	"github.com/obsoletenerd/changeblogger/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
