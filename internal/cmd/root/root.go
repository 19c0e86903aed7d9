package root

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/awxops/igsync/internal/build"
	"github.com/awxops/igsync/internal/cmd"
	"github.com/awxops/igsync/internal/cmd/common"
	getverb "github.com/awxops/igsync/internal/cmd/root/verbs/get"
	planverb "github.com/awxops/igsync/internal/cmd/root/verbs/plan"
	syncverb "github.com/awxops/igsync/internal/cmd/root/verbs/sync"
	"github.com/awxops/igsync/internal/cmd/root/version"
	"github.com/awxops/igsync/internal/config"
	"github.com/awxops/igsync/internal/iostreams"
	"github.com/awxops/igsync/internal/log"
	"github.com/awxops/igsync/internal/meta"
	"github.com/awxops/igsync/internal/profile"
	"github.com/awxops/igsync/internal/util"
	"github.com/awxops/igsync/internal/util/i18n"
	"github.com/awxops/igsync/internal/util/normalizers"
	segmentcli "github.com/segmentio/cli"
	"github.com/spf13/cobra"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  igsync reconciles instance group use permissions on an automation
  controller, mapping organization membership onto dedicated teams.

  It is designed to run on a schedule: every run re-reads the controller
  state and applies only the differences.`))

	rootShort = i18n.T("root.rootShort",
		fmt.Sprintf("%s reconciles controller instance group permissions", meta.CLIName))

	rootCmd *cobra.Command

	// Stores the global runtime value for the configuration file path
	configFilePath = config.ExpandDefaultConfigFilePath()
	currProfile    = profile.DefaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	pMgr         profile.Manager
	outputFormat = cmd.NewEnum([]string{"json", "yaml", "text"}, common.DefaultOutputFormat)
	logLevel     = cmd.NewEnum([]string{"trace", "debug", "info", "warn", "error"}, common.DefaultLogLevel)

	buildInfo *build.Info
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   meta.CLIName,
		Short: rootShort,
		Long:  rootLong,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := context.WithValue(cmd.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, profile.ProfileManagerKey, pMgr)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)
			ctx = context.WithValue(ctx, log.LoggerKey, buildLogger())
			cmd.SetContext(ctx)
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		config.ExpandDefaultConfigFilePath(),
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		profile.DefaultProfile,
		"Specify the profile to use for this command.")

	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))

	rootCmd.PersistentFlags().Var(logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(logLevel.Allowed, "|")))

	return rootCmd
}

// addCommands adds the root subcommands to the command.
func addCommands() {
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(syncverb.NewSyncCmd())
	rootCmd.AddCommand(planverb.NewPlanCmd())
	rootCmd.AddCommand(getverb.NewGetCmd())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	addCommands()

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following its built in priorities. So here we look for a well
	// known profile variable and set our package level variable if it's set
	// before continuing to process the command run. This creates a
	// ENV_VAR < CLI_FLAG priority
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName)))
	if found {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	defaultPath := config.ExpandDefaultConfigFilePath()
	cfg, err := config.GetConfig(configFilePath, currProfile, defaultPath)
	util.CheckError(err)
	currConfig = cfg

	pMgr = profile.NewManager(cfg.Viper)

	flags := rootCmd.Flags()
	util.CheckError(cfg.BindFlag(common.OutputConfigPath, flags.Lookup(common.OutputFlagName)))
	util.CheckError(cfg.BindFlag(common.LogLevelConfigPath, flags.Lookup(common.LogLevelFlagName)))
}

// buildLogger assembles the slog logger from the configured level. When a
// log-file is configured, records go to the file and error records are
// mirrored to stderr through the dual handler.
func buildLogger() *slog.Logger {
	level := log.ConfigLevelStringToSlogLevel(currConfig.GetString(common.LogLevelConfigPath))
	opts := &slog.HandlerOptions{Level: level}

	logFile := currConfig.GetString("log-file")
	if logFile != "" {
		if err := util.InitDir(logFile, 0o755); err == nil {
			f, err := os.OpenFile(os.ExpandEnv(logFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				primary := slog.NewJSONHandler(f, opts)
				secondary := slog.NewTextHandler(streams.ErrOut, &slog.HandlerOptions{Level: slog.LevelError})
				return slog.New(log.NewDualHandler(primary, secondary))
			}
		}
	}

	return slog.New(slog.NewTextHandler(streams.ErrOut, opts))
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		var executionError *cmd.ExecutionError
		if errors.As(err, &executionError) {
			printer, printerErr := segmentcli.Format(outputFormat.String(), s.ErrOut)
			if printerErr == nil {
				printer.Print(err)
			} else {
				fmt.Fprintln(s.ErrOut, err.Error())
			}
		}
		os.Exit(1)
	}
}
