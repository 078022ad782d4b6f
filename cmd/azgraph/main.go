// azgraph - Azure resource dependency graph generator
//
// Usage:
//   azgraph render  --snapshot snapshot.json [--format mermaid,html,markdown]
//   azgraph summary --snapshot snapshot.json
//   azgraph export  --snapshot snapshot.json --output graph.json
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"azure-graph/internal/inference"
	"azure-graph/internal/render"
	"azure-graph/internal/report"
	"azure-graph/internal/snapshot"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.App{
		Name:    "azgraph",
		Usage:   "Build and visualize the dependency graph of an Azure resource snapshot",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"AZGRAPH_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", c.String("log-level"), err)
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},

		Commands: []*cli.Command{
			renderCommand(),
			summaryCommand(),
			exportCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Flags shared by every command that consumes a snapshot.
func snapshotFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "snapshot",
			Aliases:  []string{"s"},
			Usage:    "Path to the captured resource snapshot JSON",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "no-potential",
			Usage: "Exclude potential dependencies inferred from type co-location",
		},
		&cli.StringSliceFlag{
			Name:  "type",
			Usage: "Only include resources of this type (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "group",
			Usage: "Only include resources in this resource group (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "keep-self-edges",
			Usage: "Retain self-referential edges (legacy-compatible output)",
		},
	}
}

// =============================================================================
// RENDER COMMAND
// =============================================================================

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Render the dependency graph in one or more notations",
		Flags: append(snapshotFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "azure-resource-graph",
				Usage:   "Output file path prefix",
			},
			&cli.StringSliceFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   cli.NewStringSlice("mermaid", "html", "markdown"),
				Usage:   "Output notations (mermaid, html, markdown)",
			},
			&cli.StringFlag{
				Name:    "direction",
				Aliases: []string{"d"},
				Value:   "TD",
				Usage:   "Diagram layout direction (TD, TB, BT, LR, RL)",
			},
			&cli.StringFlag{
				Name:  "styles",
				Usage: "YAML file overriding node shapes, colors, and display names",
			},
		),
		Action: runRender,
	}
}

func runRender(c *cli.Context) error {
	direction := c.String("direction")
	if !render.ValidDirection(direction) {
		return fmt.Errorf("invalid direction %q (want TD, TB, BT, LR, or RL)", direction)
	}

	cat, result, err := loadAndInfer(c)
	if err != nil {
		return err
	}

	styles := render.DefaultStyles()
	if path := c.String("styles"); path != "" {
		if err := styles.LoadOverrides(path); err != nil {
			return err
		}
	}

	includePotential := !c.Bool("no-potential")
	graph := render.Build(cat, result, render.Options{
		IncludePotential: includePotential,
		Styles:           styles,
	})

	prefix := c.String("output")
	for _, format := range c.StringSlice("format") {
		var path string
		var content string
		switch strings.ToLower(format) {
		case "mermaid":
			path = prefix + ".mmd"
			content = render.Mermaid(graph, direction)
		case "markdown":
			path = prefix + ".md"
			content = render.MarkdownReport(cat, result, graph, direction, includePotential)
		case "html":
			path = prefix + ".html"
			var b strings.Builder
			if err := render.HTML(graph, &b); err != nil {
				return err
			}
			content = b.String()
		default:
			return fmt.Errorf("unknown format %q (want mermaid, html, or markdown)", format)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Info().Str("path", path).Str("format", format).Msg("diagram written")
	}
	return nil
}

// =============================================================================
// SUMMARY COMMAND
// =============================================================================

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:   "summary",
		Usage:  "Print aggregate resource and dependency counts",
		Flags:  snapshotFlags(),
		Action: runSummary,
	}
}

func runSummary(c *cli.Context) error {
	cat, result, err := loadAndInfer(c)
	if err != nil {
		return err
	}
	sum := report.Build(cat, result, !c.Bool("no-potential"))
	sum.WriteText(os.Stdout)
	return nil
}

// =============================================================================
// EXPORT COMMAND
// =============================================================================

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the dependency graph as JSON",
		Flags: append(snapshotFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "dependency-graph.json",
				Usage:   "Output file path",
			},
		),
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	cat, result, err := loadAndInfer(c)
	if err != nil {
		return err
	}
	doc := report.NewExport(cat, result, !c.Bool("no-potential"))

	path := c.String("output")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := doc.Write(f); err != nil {
		return err
	}
	log.Info().Str("path", path).Str("run_id", doc.RunID).Msg("graph exported")
	return nil
}

// =============================================================================
// SHARED PIPELINE
// =============================================================================

// loadAndInfer runs the load -> filter -> infer pipeline shared by every
// command.
func loadAndInfer(c *cli.Context) (*snapshot.Catalog, *inference.Result, error) {
	cat, err := snapshot.LoadFile(c.String("snapshot"))
	if err != nil {
		return nil, nil, err
	}
	log.Info().
		Int("resources", len(cat.Resources)).
		Int("groups", len(cat.Groups)).
		Msg("snapshot loaded")

	if types, groups := c.StringSlice("type"), c.StringSlice("group"); len(types) > 0 || len(groups) > 0 {
		cat = cat.Filter(types, groups)
		log.Info().Int("resources", len(cat.Resources)).Msg("filters applied")
	}

	var opts []inference.Option
	if c.Bool("keep-self-edges") {
		opts = append(opts, inference.KeepSelfEdges())
	}
	result := inference.New(opts...).Infer(cat)
	log.Info().
		Int("confirmed", result.ConfirmedCount()).
		Int("potential", result.PotentialCount()).
		Msg("dependencies inferred")
	return cat, result, nil
}
