package main

import (
	"log"
	"os"

	"github.com/CarlosBertoldo/acervo-educacional/cmd"
)

var version = "1.0.0"

func main() {
	app := cmd.NewApp(version)
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}
