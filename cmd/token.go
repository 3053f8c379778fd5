package cmd // import "github.com/CarlosBertoldo/acervo-educacional/cmd"

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/urfave/cli"

	"github.com/CarlosBertoldo/acervo-educacional/authentication"
	"github.com/CarlosBertoldo/acervo-educacional/user"
)

var (
	idFlag = cli.Uint64Flag{
		Name:  "id",
		Usage: "user id to put in the token",
		Value: 1,
	}
	emailFlag = cli.StringFlag{
		Name:  "email",
		Usage: "email to put in the token",
		Value: user.SampleAdminEmail,
	}
	nameFlag = cli.StringFlag{
		Name:  "name",
		Usage: "display name to put in the token",
		Value: "Administrador",
	}
	adminFlag = cli.BoolFlag{
		Name:  "admin",
		Usage: "mark the token holder as administrator",
	}
)

func newTokenCmd() cli.Command {
	return cli.Command{
		Name:  "token",
		Usage: "issue or verify tokens offline",
		Subcommands: cli.Commands{
			{
				Name:   "issue",
				Usage:  "sign a token for the given identity",
				Action: issueToken,
				Flags:  []cli.Flag{secretFlag, tokenTTLFlag, idFlag, emailFlag, nameFlag, adminFlag},
			},
			{
				Name:      "verify",
				Usage:     "check a token and print its claims",
				ArgsUsage: "<token>",
				Action:    verifyToken,
				Flags:     []cli.Flag{secretFlag},
			},
		},
	}
}

var errSecretRequired = errors.New("a signing secret is required, see keygen")

func offlineAuthenticator(ctx *cli.Context) (*authentication.Authenticator, error) {
	if ctx.String(tokenSecret) == "" {
		return nil, errSecretRequired
	}
	return newAuthenticator(ctx, user.NewRegistry(), logr.Discard())
}

func issueToken(ctx *cli.Context) error {
	auth, err := offlineAuthenticator(ctx)
	if err != nil {
		return err
	}
	tok, err := auth.Issue(authentication.Identity{
		UserID:  ctx.Uint64("id"),
		Email:   ctx.String("email"),
		Name:    ctx.String("name"),
		IsAdmin: ctx.Bool("admin"),
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, tok)
	return err
}

func verifyToken(ctx *cli.Context) error {
	tok := ctx.Args().First()
	if tok == "" {
		return errors.New("expecting token as parameter")
	}
	auth, err := offlineAuthenticator(ctx)
	if err != nil {
		return err
	}
	claims, err := auth.Verify(tok)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(ctx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(claims)
}
