package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/server/adminserver"
)

var errNoScreens = errors.New("no screens in file")

// ScreensCommand returns the screens subcommand group.
func ScreensCommand() *cli.Command {
	return &cli.Command{
		Name:  "screens",
		Usage: "Administer the screen set of a running node",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Replace the screen set with the screens in a YAML or JSON file",
				ArgsUsage: "FILE",
				Action:    screensSet,
			},
		},
	}
}

func screensSet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: %s FILE", c.Command.HelpName)
	}
	screens, err := readScreens(c.Args().First())
	if err != nil {
		return err
	}
	return withAdmin(c, func(ctx context.Context, client *adminserver.Client) error {
		snap, err := client.SetScreens(ctx, screens)
		if err != nil {
			return fmt.Errorf("set screens: %w", err)
		}
		return render(c, newClusterView(snap))
	})
}

// screensFile is the on-disk form. It accepts either a bare list or a
// document with a top-level "screens" key, so `cluster -o yaml` output
// can be edited and fed back.
type screensFile struct {
	Screens []domain.Screen `yaml:"screens"`
}

// readScreens parses and validates a screen list. YAML is a superset
// of JSON, so one decoder serves both.
func readScreens(path string) ([]domain.Screen, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read screens: %w", err)
	}

	var screens []domain.Screen
	if err := yaml.Unmarshal(data, &screens); err != nil {
		var doc screensFile
		if err2 := yaml.Unmarshal(data, &doc); err2 != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		screens = doc.Screens
	}
	if len(screens) == 0 {
		return nil, fmt.Errorf("parse %s: %w", path, errNoScreens)
	}

	seen := make(map[domain.ScreenID]struct{}, len(screens))
	for i, s := range screens {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("screen %d: %w", i, err)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("screen %d: %w", i, domain.ErrInvalidScreen.WithDetails("duplicate id "+string(s.ID)))
		}
		seen[s.ID] = struct{}{}
	}
	return screens, nil
}
