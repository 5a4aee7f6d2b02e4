package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/screenmesh-go/internal/cli/output"
	"github.com/yndnr/screenmesh-go/internal/infra/buildinfo"
)

// VersionCommand prints build information.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			if ParseGlobalFlags(c).Output == output.FormatTable {
				_, err := fmt.Fprintln(writer(c), buildinfo.String())
				return err
			}
			return render(c, buildinfo.Get())
		},
	}
}
