// Package main provides the CLI entrypoint for pinyipe.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/pinyipe/internal/browse"
	"github.com/verte-zerg/pinyipe/internal/config"
	"github.com/verte-zerg/pinyipe/internal/dict"
	"github.com/verte-zerg/pinyipe/internal/engine"
	"github.com/verte-zerg/pinyipe/internal/logger"
	"github.com/verte-zerg/pinyipe/internal/model"
	"github.com/verte-zerg/pinyipe/internal/passage"
	"github.com/verte-zerg/pinyipe/internal/report"
	"github.com/verte-zerg/pinyipe/internal/server"
	"github.com/verte-zerg/pinyipe/internal/session"
	"github.com/verte-zerg/pinyipe/internal/tui"
)

const (
	defaultMaxCandidates = session.DefaultMaxCandidates
	defaultAddr          = "127.0.0.1:8080"
	defaultLogFormat     = "text"
)

var (
	debug bool

	practiceDict          string
	practiceTrie          string
	practiceText          string
	practiceMaxCandidates int

	lookupCompletions bool
	lookupLimit       int

	replayFormat string

	serveAddr      string
	serveLogFormat string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pinyipe",
		Short:         "Pinyin typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Setup(debug, log.TextFormatter)
		},
		RunE: runPracticeCmd,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&practiceDict, "dict", config.DefaultDictPath(), "dictionary asset (.msgpack, .json, .db)")
	rootCmd.PersistentFlags().StringVar(&practiceTrie, "trie", config.DefaultTriePath(), "packed trie asset")
	rootCmd.PersistentFlags().StringVar(&practiceText, "text", "", "passage file, one passage per line (default: built-in story)")
	rootCmd.PersistentFlags().IntVar(&practiceMaxCandidates, "max-candidates", defaultMaxCandidates, "candidates offered per syllable")

	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newLookupCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// loadPracticeConfig merges the config file under the flags of cmd.
func loadPracticeConfig(cmd *cobra.Command) (model.Config, config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dict", &practiceDict, fileCfg.Practice.Dict)
	applyStringConfig(cmd, "trie", &practiceTrie, fileCfg.Practice.Trie)
	applyStringConfig(cmd, "text", &practiceText, fileCfg.Practice.Text)
	applyIntConfig(cmd, "max-candidates", &practiceMaxCandidates, fileCfg.Practice.MaxCandidates)

	cfg := model.Config{
		DictPath:      practiceDict,
		TriePath:      practiceTrie,
		TextPath:      practiceText,
		MaxCandidates: practiceMaxCandidates,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, config.FileConfig{}, err
	}
	return cfg, fileCfg, nil
}

func loadEngine(ctx context.Context, cfg model.Config) (*engine.Engine, error) {
	eng, err := engine.Load(ctx, cfg.DictPath, cfg.TriePath)
	if err != nil {
		return nil, assetLoadError(cfg, err)
	}
	return eng, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("practice needs an interactive terminal; use 'pinyipe replay' to feed keys from a script")
	}
	texts, err := passage.LoadOrDefault(cfg.TextPath)
	if err != nil {
		return fmt.Errorf("failed to load passages: %w", err)
	}
	eng, err := loadEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	m := tui.NewModel(cfg, eng, passage.NewPicker(texts))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [syllable]",
		Short: "Browse the dictionary interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBrowseCmd,
	}
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("browse needs an interactive terminal; use 'pinyipe lookup' instead")
	}
	eng, err := loadEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	program := tea.NewProgram(browse.NewModel(eng, cfg.MaxCandidates, query), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <syllable>...",
		Short: "Print ranked candidates for syllables",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLookupCmd,
	}
	cmd.Flags().BoolVar(&lookupCompletions, "completions", false, "list dictionary keys starting with each syllable")
	cmd.Flags().IntVar(&lookupLimit, "limit", 0, "maximum rows per syllable (default: --max-candidates)")
	return cmd
}

func runLookupCmd(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	if lookupLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	limit := lookupLimit
	if limit == 0 {
		limit = cfg.MaxCandidates
	}
	eng, err := loadEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, arg := range args {
		syllable := strings.ToLower(strings.TrimSpace(arg))
		if lookupCompletions {
			if _, err := fmt.Fprintf(out, "%s\n", syllable); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if err := report.WriteKeys(out, eng.Completions(syllable), terminalWidth()); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			continue
		}
		entries := eng.ResolveEntries(syllable)
		if len(entries) > limit {
			entries = entries[:limit]
		}
		if err := report.WriteCandidates(out, syllable, entries); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run a key script from stdin and print the session after each line",
		Long: `Reads key scripts from stdin, one line at a time. Every rune is a
keystroke; named keys go in angle brackets: <space>, <bs>, <del>, <esc>,
<enter>, <meta>, <lt>. Lines starting with '#' are skipped.`,
		Args: cobra.NoArgs,
		RunE: runReplayCmd,
	}
	cmd.Flags().StringVar(&replayFormat, "format", "text", "output format: text or json")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	texts, err := passage.LoadOrDefault(cfg.TextPath)
	if err != nil {
		return fmt.Errorf("failed to load passages: %w", err)
	}
	eng, err := loadEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	sess := session.New(eng, texts[0], cfg.MaxCandidates)
	return replay(cmd.InOrStdin(), cmd.OutOrStdout(), sess, replayFormat)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve typing sessions over WebSocket",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&serveLogFormat, "log-format", defaultLogFormat, "log format: text, json or logfmt")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, fileCfg, err := loadPracticeConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Serve.Addr)
	applyStringConfig(cmd, "log-format", &serveLogFormat, fileCfg.Serve.LogFormat)
	serveCfg := model.ServeConfig{Addr: serveAddr, LogFormat: serveLogFormat}
	if serveCfg.Addr == "" {
		return fmt.Errorf("--addr must not be empty")
	}
	format, err := logger.ParseFormat(serveCfg.LogFormat)
	if err != nil {
		return err
	}
	logger.Setup(debug, format)
	if !debug {
		log.SetLevel(log.InfoLevel)
	}

	texts, err := passage.LoadOrDefault(cfg.TextPath)
	if err != nil {
		return fmt.Errorf("failed to load passages: %w", err)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := loadEngine(ctx, cfg)
	if err != nil {
		return err
	}
	srvLog := logger.New("server")
	srvLog.Info("Serving practice sessions", "addr", serveCfg.Addr, "keys", eng.KeyCount(), "passages", len(texts))
	srv := server.New(eng, passage.NewPicker(texts), cfg.MaxCandidates, srvLog)
	if err := srv.ListenAndServe(ctx, serveCfg.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Convert a dictionary asset between msgpack, JSON and SQLite",
		Args:  cobra.ExactArgs(2),
		RunE:  runConvertCmd,
	}
}

func runConvertCmd(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]
	if filepath.Clean(src) == filepath.Clean(dst) {
		return fmt.Errorf("source and destination are the same file")
	}
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("destination already exists: %s", dst)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat destination: %w", err)
	}
	store, err := dict.Load(cmd.Context(), src)
	if err != nil {
		return err
	}
	if err := dict.Save(cmd.Context(), dst, store.Records()); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	log.Infof("Wrote %d keys to %s", store.Len(), dst)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pinyipe configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# dict = %q
# trie = %q
# text = ""               # Passage file, one passage per line
# max-candidates = %d     # Candidates offered per syllable

[serve]
# addr = %q
# log-format = %q     # text, json or logfmt
`,
		config.DefaultDictPath(),
		config.DefaultTriePath(),
		defaultMaxCandidates,
		defaultAddr,
		defaultLogFormat,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.DictPath == "" {
		return fmt.Errorf("--dict must not be empty")
	}
	if cfg.TriePath == "" {
		return fmt.Errorf("--trie must not be empty")
	}
	if cfg.MaxCandidates <= 0 {
		return fmt.Errorf("--max-candidates must be > 0")
	}
	if cfg.MaxCandidates > 10 {
		log.Debugf("Only ranks 0-9 can be selected; %d candidates will be shown", cfg.MaxCandidates)
	}
	return nil
}

func assetLoadError(cfg model.Config, err error) error {
	hints := []string{
		fmt.Sprintf("dictionary: %s", cfg.DictPath),
		fmt.Sprintf("packed trie: %s", cfg.TriePath),
		"Set them with --dict/--trie or in: " + config.DefaultConfigPath(),
	}
	return fmt.Errorf("failed to load assets: %w\n%s", err, strings.Join(hints, "\n"))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
