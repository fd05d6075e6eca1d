// Package cli implements the bsiexport command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heimdex/bsi-exporter/internal/config"
	"github.com/heimdex/bsi-exporter/internal/db"
	"github.com/heimdex/bsi-exporter/internal/export"
	"github.com/heimdex/bsi-exporter/internal/logging"
	"github.com/heimdex/bsi-exporter/internal/rig"
	"github.com/heimdex/bsi-exporter/internal/scene"
	"github.com/heimdex/bsi-exporter/internal/settings"
)

const rootShortDescription = `Bake animation clips into BSI matrix streams`
const rootLongDescription = `bsiexport samples every node below the export root at every frame of a
clip and writes one .bsi file per clip.

Scenes are rig documents (YAML) describing a node hierarchy and its takes.
Settings come from $BSI_DATA_DIR/config.toml and BSI_* environment variables.
`

var errSceneRequired = errors.New("--scene is required")

type rootCommand struct {
	cmd    *cobra.Command
	out    io.Writer
	errOut io.Writer

	sceneFile string
	verbose   bool

	cfg    config.Config
	logger *slog.Logger
}

func NewRootCommand(out, errOut io.Writer) *rootCommand {
	root := &rootCommand{out: out, errOut: errOut}
	root.cmd = &cobra.Command{
		Use:           "bsiexport",
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.init()
		},
	}
	root.cmd.SetOut(out)
	root.cmd.SetErr(errOut)

	root.cmd.PersistentFlags().StringVarP(&root.sceneFile, "scene", "s", "", "path to the rig document")
	root.cmd.PersistentFlags().BoolVarP(&root.verbose, "verbose", "v", false, "log at debug level")

	root.cmd.AddCommand(
		clipsCommand(root),
		exportCommand(root),
		serveCommand(root),
	)
	return root
}

// Execute runs the command line with args.
func (root *rootCommand) Execute(ctx context.Context, args []string) error {
	root.cmd.SetArgs(args)
	return root.cmd.ExecuteContext(ctx)
}

func (root *rootCommand) init() error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	root.cfg = cfg

	level := cfg.LogLevel()
	if root.verbose {
		level = "debug"
	}
	// stdout carries command output
	root.logger = logging.NewLoggerTo(root.errOut, level)
	return nil
}

func (root *rootCommand) loadScene() (*rig.Rig, error) {
	if root.sceneFile == "" {
		return nil, errSceneRequired
	}
	r, err := rig.Load(root.sceneFile)
	if err != nil {
		return nil, err
	}
	root.logger.Debug("scene loaded", "path", logging.SanitizePath(root.sceneFile), "clips", len(r.Clips()))
	return r, nil
}

func (root *rootCommand) openRepository() (*db.DB, settings.Repository, error) {
	database, err := db.New(root.cfg.DBPath(), root.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database, settings.NewRepository(database.Conn()), nil
}

func (root *rootCommand) newExporter(s scene.Scene, sink export.ProgressSink) *export.Exporter {
	return export.New(export.Config{
		Scene:    s,
		RootName: root.cfg.RootName(),
		Encode: export.EncodeOptions{
			SampleRate:       root.cfg.SampleRate(),
			TranslationScale: root.cfg.TranslationScale(),
		},
		Progress: sink,
		Logger:   root.logger,
	})
}
