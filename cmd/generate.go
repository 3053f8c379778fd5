package cmd // import "github.com/CarlosBertoldo/acervo-educacional/cmd"

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"golang.org/x/crypto/bcrypt"

	"github.com/CarlosBertoldo/acervo-educacional/user"
)

var (
	outputFileFlag = cli.StringFlag{
		Name:  "out_file",
		Usage: "file to write JSON-encoded generated content",
		Value: "users.json",
	}
	passwordFlag = cli.StringFlag{
		Name:  "password",
		Usage: "password to use",
	}
)

func newGenerateCmd() cli.Command {
	return cli.Command{
		Name:    "generate",
		Aliases: []string{"gen", "g"},
		Subcommands: cli.Commands{
			{
				Name:    "users",
				Aliases: []string{"u"},
				Usage:   "write a users file with a single bcrypt protected user",
				Flags:   []cli.Flag{idFlag, emailFlag, nameFlag, adminFlag, passwordFlag, outputFileFlag},
				Action:  generateUsers,
			},
		},
	}
}

func generateUsers(ctx *cli.Context) error {
	email := ctx.String("email")
	password := ctx.String("password")
	outFile := ctx.String("out_file")
	if email == "" || password == "" || outFile == "" {
		return errors.New("parameters email, password, and out_file are all required")
	}

	pwd, err := hashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	r := user.NewRegistry()
	err = r.Put(&user.Details{
		ID:       ctx.Uint64("id"),
		Email:    email,
		Name:     ctx.String("name"),
		Password: pwd,
		IsAdmin:  ctx.Bool("admin"),
	})
	if err != nil {
		return err
	}

	fd, err := open(outFile)
	if err != nil {
		return err
	}
	defer func() { _ = fd.Close() }()

	fmt.Fprintf(ctx.App.Writer, "Writing users file %q, with email %q (serve with --%s)\n", outFile, user.NormalizeEmail(email), bcryptPasswords)
	return r.SaveToJSON(fd)
}

func open(name string) (*os.File, error) {
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
}
