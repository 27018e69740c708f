// Package main provides the entry point for the readaloud CLI application.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/readaloud/tts"
	"github.com/dgnsrekt/readaloud/tts/engines"
	"github.com/dgnsrekt/readaloud/ui"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/muesli/gitcha"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	readmeNames      = []string{"README.md", "README.markdown", "README.html", "index.html"}
	documentPatterns = []string{"*.md", "*.markdown", "*.mdown", "*.mkd", "*.mkdn", "*.html", "*.htm"}

	configFile string
	width      uint
	mouse      bool
	engineName string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "readaloud [FILE]",
		Short: "Read documents aloud in the terminal",
		Long: paragraph(
			fmt.Sprintf("\nPage through a document and %s, a page or a paragraph at a time.", keyword("have it read aloud")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"md", "markdown", "html", "htm"}, cobra.ShellCompDirectiveFilterFileExt
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	// grab config values from Viper
	width = viper.GetUint("width")
	mouse = viper.GetBool("mouse")
	debug = viper.GetBool("debug")
	engineName = viper.GetString("engine")

	if debug || os.Getenv("READALOUD_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	if _, err := tts.LoadConfigFromViper(); err != nil {
		return err
	}

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))

	// Detect terminal width
	if !cmd.Flags().Changed("width") { //nolint:nestif
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}

			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(_ *cobra.Command, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	// if stdin is a pipe then use stdin for input. note that you can also
	// explicitly use a - to read from stdin.
	pipe, err := stdinIsPipe()
	if err != nil {
		return err
	}
	if arg == "-" || (arg == "" && pipe) {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("unable to read from stdin: %w", err)
		}
		return runTUI("", string(b))
	}

	path, err := documentPath(arg)
	if err != nil {
		return err
	}
	return runTUI(path, "")
}

// documentPath resolves the file argument to an absolute path. A directory,
// or no argument at all, is searched for a document, preferring a readme.
func documentPath(arg string) (string, error) {
	if arg == "" {
		arg = "."
	}

	p, err := homedir.Expand(arg)
	if err != nil {
		return "", fmt.Errorf("unable to expand path: %w", err)
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", fmt.Errorf("unable to open file: %w", err)
	}
	if info.IsDir() {
		if p, err = findDocument(p); err != nil {
			return "", err
		}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("unable to get absolute path: %w", err)
	}
	return abs, nil
}

// findDocument searches dir, honoring .gitignore, for a readme or failing
// that the first document found.
func findDocument(dir string) (string, error) {
	ch, err := gitcha.FindFilesExcept(dir, documentPatterns, nil)
	if err != nil {
		return "", fmt.Errorf("unable to search %s: %w", dir, err)
	}

	var first string
	var readme string
	for res := range ch {
		if first == "" {
			first = res.Path
		}
		if readme != "" {
			continue
		}
		for _, v := range readmeNames {
			if strings.EqualFold(filepath.Base(res.Path), v) {
				readme = res.Path
				break
			}
		}
	}

	switch {
	case readme != "":
		return readme, nil
	case first != "":
		return first, nil
	default:
		return "", fmt.Errorf("missing document: no Markdown or HTML files in %s", dir)
	}
}

func runTUI(path string, content string) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Path = path
	cfg.Width = width
	cfg.EnableMouse = mouse
	if viper.IsSet("double_click") {
		cfg.DoubleClick = viper.GetDuration("double_click")
	}

	cfg.Narration, err = tts.LoadConfigFromViper()
	if err != nil {
		return err
	}
	engine, err := engines.New(cfg.Narration)
	if err != nil {
		return err
	}
	log.Debug("speech engine selected", "engine", engine.Name(), "available", engine.Available())

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, engine, content).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", configFile, fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&engineName, "engine", "e", "", "speech engine: "+strings.Join(tts.ValidEngines(), ", "))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug output to the log file")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "word-wrap at width")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", true, "enable mouse clicks and wheel")

	// Config bindings
	_ = viper.BindPFlag("engine", rootCmd.PersistentFlags().Lookup("engine"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("engine", tts.EngineAuto)
	viper.SetDefault("width", 0)
	viper.SetDefault("mouse", true)

	rootCmd.AddCommand(configCmd, manCmd, speakCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "readaloud")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "readaloud")}, dirs...)
	}

	if c := os.Getenv("READALOUD_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("readaloud")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("readaloud")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], "readaloud.yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
