package cmd // import "github.com/CarlosBertoldo/acervo-educacional/cmd"

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/crypto/bcrypt"

	"github.com/CarlosBertoldo/acervo-educacional/common"
)

var costFlag = cli.IntFlag{
	Name:  "cost",
	Usage: fmt.Sprintf("bcrypt cost, %d to %d", bcrypt.MinCost, bcrypt.MaxCost),
	Value: bcrypt.DefaultCost,
}

func newBcryptCmd() cli.Command {
	return cli.Command{
		Name:      "bcrypt",
		Usage:     "hash passwords for a users file, one hash per line",
		ArgsUsage: "<password>...",
		Action:    hashPasswords,
		Flags:     []cli.Flag{costFlag},
	}
}

func hashPasswords(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("expecting at least one password")
	}
	cost := ctx.Int("cost")
	for _, pwd := range ctx.Args() {
		h, err := hashPassword(pwd, cost)
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintln(ctx.App.Writer, h); err != nil {
			return err
		}
	}
	return nil
}

// hashPassword returns the bcrypt hash of password in the format the
// users file stores.
func hashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", errors.Errorf("bcrypt cost %d out of range", cost)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(h), nil
}

func newKeygenCmd() cli.Command {
	return cli.Command{
		Name:  "keygen",
		Usage: "print a random base64 token signing secret",
		Action: func(ctx *cli.Context) error {
			_, err := fmt.Fprintln(ctx.App.Writer, common.Generate(common.SecretSize))
			return err
		},
	}
}
