package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/screenmesh-go/internal/cli/output"
	"github.com/yndnr/screenmesh-go/internal/infra/buildinfo"
	"github.com/yndnr/screenmesh-go/internal/server/adminserver"
)

// DefaultAdminURL is the admin channel of a node with default settings.
const DefaultAdminURL = "ws://127.0.0.1:3012/ws"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "screenmesh",
		Usage:   "Share one keyboard and mouse across machines",
		Version: buildinfo.Get().Version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ServeCommand(),
			ClusterCommand(),
			ScreensCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			_, err := output.ParseFormat(c.String("output"))
			return err
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "admin",
			Aliases: []string{"a"},
			Usage:   "Admin channel URL of a running node",
			EnvVars: []string{"SCREENMESH_ADMIN_URL"},
			Value:   DefaultAdminURL,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Admin request timeout",
			Value: 10 * time.Second,
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Admin   string
	Output  output.Format
	Wide    bool
	Timeout time.Duration
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	format, _ := output.ParseFormat(c.String("output"))
	return &GlobalFlags{
		Admin:   c.String("admin"),
		Output:  format,
		Wide:    c.Bool("wide"),
		Timeout: c.Duration("timeout"),
	}
}

// withAdmin dials the admin channel, runs fn and closes the connection.
func withAdmin(c *cli.Context, fn func(ctx context.Context, client *adminserver.Client) error) error {
	flags := ParseGlobalFlags(c)

	ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()

	client, err := adminserver.Dial(ctx, flags.Admin)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(ctx, client)
}

// render writes data in the selected output format.
func render(c *cli.Context, data any) error {
	flags := ParseGlobalFlags(c)
	return output.NewFormatter(flags.Output, flags.Wide).Format(writer(c), data)
}

func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
