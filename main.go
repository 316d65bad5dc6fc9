package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zsprackett/claude-limitline/internal/applog"
	"github.com/zsprackett/claude-limitline/internal/claudehook"
	"github.com/zsprackett/claude-limitline/internal/claudeusage"
	"github.com/zsprackett/claude-limitline/internal/config"
	"github.com/zsprackett/claude-limitline/internal/credential"
	"github.com/zsprackett/claude-limitline/internal/statusline"
	"github.com/zsprackett/claude-limitline/internal/trend"
	"github.com/zsprackett/claude-limitline/internal/usagecache"
	"github.com/zsprackett/claude-limitline/internal/usagepoller"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

type app struct {
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
	cache  *usagecache.Cache
}

func setup() *app {
	path := cfgFile
	if path == "" {
		path = config.FindPath()
	}
	cfg, cfgErr := config.Load(path)

	logger, closer, err := applog.Init(applog.InitConfig{
		LogDir:   cfg.LogDir,
		LogLevel: cfg.LogLevel,
		Debug:    applog.DebugFromEnv(),
	})
	if err != nil {
		// stdout belongs to the host; logging just stays off.
		logger = applog.Discard()
	}
	if cfgErr != nil {
		logger.Warn("config load failed, using defaults", "path", path, "err", cfgErr)
	} else {
		logger.Debug("config loaded", "path", path)
	}

	resolver := credential.NewResolver(logger)
	client := claudeusage.NewClient("", nil, logger)
	return &app{
		cfg:    cfg,
		logger: logger,
		closer: closer,
		cache:  usagecache.New(resolver, client, logger),
	}
}

// colorProfile keeps auto-detection for interactive terminals and forces
// 256 colors when stdout is a pipe read by the host statusline.
func colorProfile() termenv.Profile {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return termenv.NewOutput(os.Stdout).EnvColorProfile()
	}
	return termenv.ANSI256
}

var rootCmd = &cobra.Command{
	Use:   "claude-limitline",
	Short: "Statusline for Claude usage limits",
	Long: `claude-limitline prints a one-line summary of the five-hour and weekly
Claude usage quotas, suitable for a Claude Code statusline command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, _ []string) {
		a := setup()
		defer a.closer.Close()
		defer func() {
			// A statusline must never break the host's terminal.
			if r := recover(); r != nil {
				a.logger.Error("statusline panic", "panic", r)
			}
		}()

		stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))
		if hook := claudehook.Read(os.Stdin, stdinTTY, claudehook.ReadTimeout, a.logger); hook != nil && hook.Model != nil {
			a.logger.Debug("host model", "id", hook.Model.ID)
		}

		d := statusline.Gather(cmd.Context(), a.cfg, a.cache, a.logger)
		out := statusline.NewRenderer(a.cfg, os.Stdout, colorProfile()).Render(d)
		if out != "" {
			fmt.Fprint(os.Stdout, out)
		}
	},
}

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the statusline periodically, with usage trends",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if watchInterval <= 0 {
			return fmt.Errorf("--interval must be positive, got %s", watchInterval)
		}
		a := setup()
		defer a.closer.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		renderer := statusline.NewRenderer(a.cfg, os.Stdout, colorProfile())
		tty := term.IsTerminal(int(os.Stdout.Fd()))
		p := usagepoller.New(a.cache, watchInterval, a.cfg.Budget.PollInterval, func(usagepoller.Update) {
			d := statusline.Gather(ctx, a.cfg, a.cache, a.logger)
			line := renderer.Render(d)
			if tty {
				fmt.Fprint(os.Stdout, "\r\x1b[K"+line)
			} else {
				fmt.Fprintln(os.Stdout, line)
			}
		}, a.logger)
		p.Start(ctx)
		<-ctx.Done()
		p.Stop()
		if tty {
			fmt.Fprintln(os.Stdout)
		}
		return nil
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Print every quota with reset times",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := setup()
		defer a.closer.Close()

		snap := a.cache.Get(cmd.Context(), a.cfg.Budget.PollInterval)
		if snap == nil {
			return fmt.Errorf("no usage data available (set %s=true and check the log)", applog.DebugEnv)
		}
		printUsage(os.Stdout, snap, a.cache.Trend())
		return nil
	},
}

func printUsage(w io.Writer, snap *claudeusage.Snapshot, tr trend.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUOTA\tUSED\tRESETS\tTREND")
	rows := []struct {
		name string
		q    *claudeusage.Quota
		dir  trend.Direction
	}{
		{"five_hour", snap.FiveHour, tr.FiveHour},
		{"seven_day", snap.SevenDay, tr.SevenDay},
		{"seven_day_opus", snap.SevenDayOpus, tr.SevenDayOpus},
		{"seven_day_sonnet", snap.SevenDaySonnet, tr.SevenDaySonnet},
	}
	for _, r := range rows {
		if r.q == nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\n", r.name)
			continue
		}
		resets := "-"
		if r.q.ResetAt != nil {
			resets = humanize.Time(*r.q.ResetAt)
		}
		used := fmt.Sprintf("%.1f%%", r.q.PercentUsed)
		if r.q.IsOverLimit {
			used += " (over limit)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.name, used, resets, r.dir)
	}
	fmt.Fprintf(tw, "\nfetched %s\n", humanize.Time(snap.FetchedAt))
	tw.Flush()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("claude-limitline version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.claude-limitline.json, then ~/.claude/claude-limitline.json)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "time between re-renders")
	rootCmd.AddCommand(watchCmd, usageCmd, versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
