package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/ytbulk/internal/config"
	"github.com/tanq16/ytbulk/internal/output"
	"github.com/tanq16/ytbulk/internal/prompt"
	"github.com/tanq16/ytbulk/internal/utils"
)

var (
	debug      bool
	workers    int
	timeout    time.Duration
	ytdlpPath  string
	ffmpegPath string
	configPath string
	envFile    string

	cfg *config.Config
)

var YtbulkVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "ytbulk",
	Short:   "ytbulk downloads audio and video through yt-dlp, one URL or many at once",
	Version: YtbulkVersion,
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		utils.InitLogger(debug)
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded
		log.Debug().Str("op", "cmd/root").Interface("config", cfg).Msg("Configuration resolved")
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		p := prompt.New()
		err := runInteractive(cmd.Context(), p)
		p.Close()
		exitOnError(err)
	},
}

// loadConfig validates only after flags are applied, so a flag can fix a bad
// value coming from the file or the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loaded, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		c.Workers = workers
	}
	if flags.Changed("timeout") {
		c.JobTimeout = timeout
	}
	if flags.Changed("ytdlp") {
		c.YtdlpPath = ytdlpPath
	}
	if flags.Changed("ffmpeg") {
		c.FFmpegPath = ffmpegPath
	}
}

// runInteractive is the prompt-driven flow: type, then single or bulk.
func runInteractive(ctx context.Context, p asker) error {
	mode, err := resolveMode(p, "")
	if err != nil {
		return err
	}
	choice, err := p.Select("Single or bulk download ?", []string{"Single", "Bulk"}, 0)
	if err != nil {
		return err
	}
	if choice == 0 {
		return runSingle(ctx, p, mode, singleOptions{})
	}
	return runBulk(ctx, p, mode, bulkOptions{})
}

// exitOnError prints err the way users expect and exits non-zero.
func exitOnError(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, prompt.ErrCancelled):
		output.PrintWarning("Input cancelled. Exiting.")
	case errors.Is(err, errJobsFailed):
		output.PrintError("Encountered failed download(s)")
	case utils.IsInputError(err):
		output.PrintError(err.Error())
	default:
		output.PrintError(fmt.Sprintf("Error: %v", err))
	}
	os.Exit(1)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Number of downloads to run in parallel (0 = all at once)")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 0, "Per-download timeout (eg. 10m, 1h; 0 = none)")
	rootCmd.PersistentFlags().StringVar(&ytdlpPath, "ytdlp", "", "Path or name of the yt-dlp executable")
	rootCmd.PersistentFlags().StringVar(&ffmpegPath, "ffmpeg", "", "Path to ffmpeg for audio extraction (default: PATH)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Env file with YTBULK_* settings")

	rootCmd.AddCommand(newSingleCmd())
	rootCmd.AddCommand(newBulkCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
}
