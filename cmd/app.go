package cmd // import "github.com/CarlosBertoldo/acervo-educacional/cmd"

import (
	"os"

	"github.com/urfave/cli"
)

// NewApp exposes the command line App
func NewApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "acervo-mock"
	app.Usage = "acervo educacional mock api server"
	app.Version = version
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	app.Commands = []cli.Command{
		newServeCmd(),
		newTokenCmd(),
		newBcryptCmd(),
		newKeygenCmd(),
		newGenerateCmd(),
	}
	return app
}
