package cli

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rtm/cli/cmd"
	"github.com/ardnew/rtm/log"
	"github.com/ardnew/rtm/manifest"
	"github.com/ardnew/rtm/pkg"
	"github.com/ardnew/rtm/vars"
)

// CLI is the top-level command-line interface for rtm.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Network manifest.Network  `default:"mainnet" help:"Network whose address format is enforced (${networks})"                                          short:"n"`
	Vars    []string          `                  help:"Variables file layered over the defaults; bare names are searched in ${varsPath}" placeholder:"FILE" short:"V"`
	Var     map[string]string `                  help:"Set a variable, overriding every file"                                   mapsep:"none" placeholder:"NAME=VALUE" short:"D"`

	Init         cmd.Init         `cmd:"" help:"Initialize configuration file"`
	Lint         cmd.Lint         `cmd:"" default:"withargs" help:"Lint manifests"`
	Subst        cmd.Subst        `cmd:"" help:"Substitute variables into a manifest"`
	Parse        cmd.Parse        `cmd:"" help:"Print the syntax tree of a manifest"`
	Instructions cmd.Instructions `cmd:"" help:"List known instructions"`
	Complete     cmd.Complete     `cmd:"" help:"Complete a partial word"`
	Variables    cmd.Variables    `cmd:"" help:"Print the variable table" name:"vars"`
}

// Run executes the rtm CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		cmd.VarsIdentifier:   configPath(baseVars),
		"networks":           strings.Join(manifest.NetworkNames(), ", "),
		"varsPath":           "$" + pkg.EnvPrefix() + "PATH, the working directory and " + pkg.ConfigDir(),
		"version":            pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.DefaultEnvars(strings.TrimSuffix(pkg.EnvPrefix(), "_")),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx, configFilePath), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values, including those
	// read from configuration files.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	table, err := cli.table(ctx, configPath(baseVars))
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithNetwork(ctx, cli.Network)
	ctx = cmd.WithTable(ctx, table)
	ctx = cmd.WithCache(ctx, new(manifest.Cache))

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}

// table layers the variable sources in increasing precedence: the network
// defaults, the variables file in the configuration directory if present,
// each --vars file in order, then every --var.
func (c *CLI) table(ctx context.Context, defaultVars string) (*vars.Table, error) {
	layers := []*vars.Table{vars.Defaults(c.Network)}

	files := c.Vars
	if _, err := os.Stat(defaultVars); err == nil {
		files = append([]string{defaultVars}, files...)
	}

	for _, name := range files {
		path := pkg.Find(name)

		t, err := vars.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}

		log.DebugContext(ctx, "variables loaded",
			slog.String("path", path),
			slog.Int("entries", t.Len()),
		)

		layers = append(layers, t)
	}

	if len(c.Var) > 0 {
		var t vars.Table

		for _, name := range slices.Sorted(maps.Keys(c.Var)) {
			if err := t.Set(vars.Entry{Name: name, Value: c.Var[name]}); err != nil {
				return nil, err
			}
		}

		layers = append(layers, &t)
	}

	return vars.Merge(log.Default(), layers...), nil
}
