package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/himanishpuri/djaysync/internal/config"
	"github.com/himanishpuri/djaysync/pkg/djaysync"
	"github.com/himanishpuri/djaysync/pkg/logger"
	"github.com/himanishpuri/djaysync/pkg/utils"
	"github.com/spf13/cobra"
)

var errNoDB = errors.New("no djay library given: pass --db or set " + config.EnvDBPath)

// app carries state shared by all subcommands once flags are parsed.
type app struct {
	configPath string
	dbPath     string
	logLevel   string

	cfg   config.Config
	log   *logger.Logger
	runID string

	// serviceOpts are appended when the service is opened.
	serviceOpts []djaysync.Option
}

func newRootCmd() *cobra.Command {
	return newAppCmd(&app{})
}

func newAppCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "djaysync",
		Short: "Copy djay BPM and key analysis into the Music library",
		Long: `djaysync reads tempo and musical key from a djay Pro MediaLibrary.db and
writes them into the Music app: BPM into the BPM field and a Camelot key
label into the Comment field. Runs are dry unless --apply is given.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (env: "+config.EnvConfigPath+", default: ./"+config.FileName+")")
	flags.StringVar(&a.dbPath, "db", "", "Path to djay MediaLibrary.db (env: "+config.EnvDBPath+")")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn (env: "+config.EnvLogLevel+")")

	root.AddCommand(newPlaylistsCmd(a), newSyncCmd(a), newConfigCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, used, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	a.cfg = cfg
	a.runID = utils.NewRunID()
	a.log = logger.GetLogger().WithPrefix("run=" + a.runID)
	if used != "" {
		a.log.Debugf("Using config file %s", used)
	}
	return nil
}

// openService opens the configured library.
func (a *app) openService() (djaysync.Service, error) {
	if a.cfg.DBPath == "" {
		return nil, errNoDB
	}

	size, err := utils.RegularFileSize(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("djay library: %w", err)
	}
	a.log.Infof("Opening djay library %s (%s)", a.cfg.DBPath, humanize.Bytes(uint64(size)))

	opts := []djaysync.Option{
		djaysync.WithDBPath(a.cfg.DBPath),
		djaysync.WithLogger(a.log),
		djaysync.WithLimit(a.cfg.Limit),
		djaysync.WithNoOverwrite(a.cfg.NoOverwrite),
		djaysync.WithUpdateAllMatches(a.cfg.UpdateAllMatches),
		djaysync.WithScriptTimeout(a.cfg.ScriptTimeout.Duration),
	}
	return djaysync.NewService(append(opts, a.serviceOpts...)...)
}
