package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/screenmesh-go/internal/cli/output"
	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/protocol"
	"github.com/yndnr/screenmesh-go/internal/server/adminserver"
)

// ClusterCommand prints the topology of a running node.
func ClusterCommand() *cli.Command {
	return &cli.Command{
		Name:  "cluster",
		Usage: "Show the screens and focus of a running node",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep printing topology pushes until interrupted",
			},
		},
		Action: clusterShow,
	}
}

func clusterShow(c *cli.Context) error {
	if c.Bool("watch") {
		return clusterWatch(c)
	}
	return withAdmin(c, func(ctx context.Context, client *adminserver.Client) error {
		snap, err := client.Cluster(ctx)
		if err != nil {
			return fmt.Errorf("query cluster: %w", err)
		}
		return render(c, newClusterView(snap))
	})
}

// clusterWatch prints the current topology and every later push. The
// request timeout covers only the dial and the first answer.
func clusterWatch(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	dialCtx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()
	client, err := adminserver.Dial(dialCtx, flags.Admin)
	if err != nil {
		return err
	}
	defer client.Close()

	snap, err := client.Cluster(dialCtx)
	if err != nil {
		return fmt.Errorf("query cluster: %w", err)
	}

	// JSON streams one snapshot per line; other formats are separated
	// by a blank line.
	f := output.NewFormatter(flags.Output, flags.Wide)
	lines := flags.Output == output.FormatJSON
	if lines {
		f = &output.JSONFormatter{Compact: true}
	}
	w := writer(c)
	if err := f.Format(w, newClusterView(snap)); err != nil {
		return err
	}

	ctx := c.Context
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()
	for {
		msg, err := client.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("watch cluster: %w", err)
		}
		if msg.Kind != protocol.KindCluster {
			continue
		}
		if !lines {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := f.Format(w, newClusterView(*msg.Cluster)); err != nil {
			return err
		}
	}
}

// clusterView is the printable form of a snapshot.
type clusterView struct {
	Focused string       `json:"focused" yaml:"focused"`
	Screens []screenView `json:"screens" yaml:"screens"`
}

// screenView keeps domain.Screen's field names so YAML output can be
// edited and passed to `screens set`.
type screenView struct {
	ID      string       `json:"id" yaml:"id"`
	Route   string       `json:"route" yaml:"route"`
	Origin  domain.Point `json:"origin" yaml:"origin"`
	Extent  domain.Size  `json:"extent" yaml:"extent"`
	Focused bool         `json:"focused,omitempty" yaml:"focused,omitempty"`
}

func newClusterView(s protocol.Snapshot) clusterView {
	v := clusterView{Focused: string(s.Focused), Screens: make([]screenView, 0, len(s.Screens))}
	for _, scr := range s.Screens {
		v.Screens = append(v.Screens, screenView{
			ID:      string(scr.ID),
			Route:   scr.Route,
			Origin:  scr.Origin,
			Extent:  scr.Extent,
			Focused: scr.ID == s.Focused,
		})
	}
	return v
}

// Table implements output.Tabler. The focused screen is marked with *.
func (v clusterView) Table(wide bool) *output.Table {
	t := &output.Table{Headers: []string{"ID", "ORIGIN", "SIZE", "FOCUS"}}
	if wide {
		t.Headers = append(t.Headers, "ROUTE")
	}
	for _, s := range v.Screens {
		mark := ""
		if s.Focused {
			mark = "*"
		}
		row := []string{
			s.ID,
			strconv.Itoa(s.Origin.X) + "," + strconv.Itoa(s.Origin.Y),
			strconv.Itoa(s.Extent.Width) + "x" + strconv.Itoa(s.Extent.Height),
			mark,
		}
		if wide {
			row = append(row, s.Route)
		}
		t.AddRow(row...)
	}
	return t
}
