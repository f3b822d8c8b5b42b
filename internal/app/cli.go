package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	config "llm-ensemble/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const version = "1.0.0"

var exitFn = os.Exit

type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}

type cliOptions struct {
	Models     string
	Iterations int

	Prompt     string
	PromptFile string

	OutDir string

	GeminiModel    string
	CodexModel     string
	CodexReasoning string

	MergeCodexModel string
	MergeReasoning  string
	MergePrompt     string
	MergePromptFile string

	Timeout     int
	Format      string
	RequireGit  bool
	MaxParallel int

	Version    bool
	ConfigFile string
}

// Run is the program entrypoint for cmd/llm-ensemble/main.go.
func Run() {
	exitFn(run())
}

func run() int {
	cmd := newRootCommand()
	cmd.SetArgs(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:           "llm-ensemble [flags] [prompt]",
		Short:         "Fan one prompt out to multiple LLM backends and merge the answers",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Version {
				fmt.Printf("llm-ensemble version %s\n", version)
				return nil
			}

			v, err := config.NewViper(opts.ConfigFile)
			if err != nil {
				return fatal(err)
			}

			cfg, err := buildConfig(cmd, args, opts, v)
			if err != nil {
				return fatal(err)
			}

			exitCode := runWithLogger(func() int {
				return runEnsemble(cfg)
			})
			if exitCode == 0 {
				return nil
			}
			return exitError{code: exitCode}
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	addRootFlags(cmd.Flags(), opts)
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func addRootFlags(fs *pflag.FlagSet, opts *cliOptions) {
	fs.StringVar(&opts.ConfigFile, "config", "", "Config file path (default: $HOME/.llm-ensemble/config.*)")
	fs.BoolVarP(&opts.Version, "version", "v", false, "Print version and exit")

	fs.StringVarP(&opts.Models, "models", "m", "", "Comma-separated provider[:model] list (gemini, codex)")
	fs.IntVarP(&opts.Iterations, "iterations", "n", 0, "Number of iterations per model")

	fs.StringVarP(&opts.Prompt, "prompt", "p", "", "Prompt text")
	fs.StringVarP(&opts.PromptFile, "prompt-file", "f", "", "Prompt file path")
	fs.StringVarP(&opts.OutDir, "outdir", "o", "", "Output directory (default: ./llm_ensemble_<timestamp>)")

	fs.StringVar(&opts.GeminiModel, "gemini-model", config.DefaultGeminiModel, "Default gemini model")
	fs.StringVar(&opts.CodexModel, "codex-model", config.DefaultCodexModel, "Default codex model")
	fs.StringVar(&opts.CodexReasoning, "codex-reasoning", config.DefaultReasoning, "Codex reasoning effort (minimal, low, medium, high, xhigh)")

	fs.StringVar(&opts.MergeCodexModel, "merge-codex-model", "", "Codex model for the merge stage")
	fs.StringVar(&opts.MergeReasoning, "merge-reasoning", "", "Reasoning effort for the merge stage")
	fs.StringVar(&opts.MergePrompt, "merge-prompt", "", "Custom merge instruction text")
	fs.StringVar(&opts.MergePromptFile, "merge-prompt-file", "", "Custom merge instruction file")

	fs.IntVar(&opts.Timeout, "timeout", config.DefaultTimeoutSeconds, "Per-invocation timeout in seconds (0 = unbounded)")
	fs.StringVar(&opts.Format, "format", config.FormatText, "Final output format (txt, rtf)")
	fs.BoolVar(&opts.RequireGit, "require-git", false, "Enable the codex git repository check")
	fs.IntVar(&opts.MaxParallel, "max-parallel", 0, "Max parallel backend invocations (0 = unbounded)")
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print version and exit",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("llm-ensemble version %s\n", version)
			return nil
		},
	}
}

// fatal prints the single diagnostic line required for configuration-time
// failures and maps to a non-zero exit.
func fatal(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitError{code: 1}
}

// buildConfig resolves flags over viper values over built-in defaults into
// one immutable Config.
func buildConfig(cmd *cobra.Command, args []string, opts *cliOptions, v *viper.Viper) (*config.Config, error) {
	cfg := &config.Config{
		ModelsCSV:       stringSetting(cmd, v, "models", opts.Models),
		Iterations:      intSetting(cmd, v, "iterations", opts.Iterations),
		PromptText:      opts.Prompt,
		PromptFile:      stringSetting(cmd, v, "prompt-file", opts.PromptFile),
		OutDir:          stringSetting(cmd, v, "outdir", opts.OutDir),
		GeminiModel:     stringSetting(cmd, v, "gemini-model", opts.GeminiModel),
		CodexModel:      stringSetting(cmd, v, "codex-model", opts.CodexModel),
		CodexReasoning:  stringSetting(cmd, v, "codex-reasoning", opts.CodexReasoning),
		MergeCodexModel: stringSetting(cmd, v, "merge-codex-model", opts.MergeCodexModel),
		MergeReasoning:  stringSetting(cmd, v, "merge-reasoning", opts.MergeReasoning),
		MergePromptText: opts.MergePrompt,
		MergePromptFile: stringSetting(cmd, v, "merge-prompt-file", opts.MergePromptFile),
		Timeout:         intSetting(cmd, v, "timeout", opts.Timeout),
		OutputFormat:    stringSetting(cmd, v, "format", opts.Format),
		RequireGit:      boolSetting(cmd, v, "require-git", opts.RequireGit),
	}

	if len(args) > 0 {
		if cfg.PromptText != "" {
			return nil, config.Errorf("multiple prompt arguments provided")
		}
		cfg.PromptText = args[0]
	}

	if cmd.Flags().Changed("max-parallel") {
		cfg.MaxParallelWorkers = config.ClampMaxParallelWorkers(opts.MaxParallel)
	} else {
		cfg.MaxParallelWorkers = config.ResolveMaxParallelWorkers()
	}

	if strings.TrimSpace(cfg.OutDir) == "" {
		cfg.OutDir = fmt.Sprintf("llm_ensemble_%s", time.Now().Format("20060102_150405"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func stringSetting(cmd *cobra.Command, v *viper.Viper, name, flagValue string) string {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	if val := strings.TrimSpace(v.GetString(name)); val != "" {
		return val
	}
	return flagValue
}

func intSetting(cmd *cobra.Command, v *viper.Viper, name string, flagValue int) int {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	if v.IsSet(name) {
		return v.GetInt(name)
	}
	return flagValue
}

func boolSetting(cmd *cobra.Command, v *viper.Viper, name string, flagValue bool) bool {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	if v.IsSet(name) {
		return v.GetBool(name)
	}
	return flagValue
}
