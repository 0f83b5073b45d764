package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"go-bankbuild/bank"
	"go-bankbuild/config"
	"go-bankbuild/debug"
	"go-bankbuild/theme"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		th, _ := theme.Load("", true)
		fmt.Fprintln(cmd.ErrOrStderr(), th.Error().Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var configPath string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "bankbuild <input> [output]",
		Short: "Build a binary patch bank from a text bank, its patches and samples",
		Long: `bankbuild reads a text bank ([PATCHBANK] header with comment, patchpath,
assetpath and patches tags), loads every .patch and .sfz file it names plus
the .wav samples they play, and writes one binary bank file.

Without an output the bank is written next to the input with a .bank
extension. An output ending in a path separator is a directory.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
				cmd.Usage()
				return err
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			if noColor {
				cfg.Color = false
			}
			output := ""
			if len(args) > 1 {
				output = args[1]
			}
			return run(cmd.OutOrStdout(), cfg, args[0], output)
		},
	}

	flags := cmd.Flags()
	flags.Bool("debug", false, "write a debug log")
	flags.String("log", "", "debug log path (default ~/.config/go-bankbuild/debug.log)")
	flags.String("ext", "", "extension for output names without one (default .bank)")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.StringVar(&configPath, "config", "", "config file (default ~/.config/go-bankbuild/config.json)")

	bindFlag(v, "debug", flags.Lookup("debug"))
	bindFlag(v, "logPath", flags.Lookup("log"))
	bindFlag(v, "extension", flags.Lookup("ext"))
	return cmd
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func run(w io.Writer, cfg *config.Config, input, output string) error {
	if cfg.Debug || cfg.LogPath != "" {
		if err := debug.Enable(cfg.LogPath); err != nil {
			return err
		}
		defer debug.Disable()
	}

	th, err := theme.Load(cfg.Palette, cfg.Color)
	if err != nil {
		return err
	}

	builder := bank.NewBuilder(bank.Options{Extension: cfg.Extension})
	report, err := builder.Build(input, output)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, th.Text().Render(fmt.Sprintf("Loaded %d patches.", report.Patches+report.Multis)))
	fmt.Fprintln(w, th.Text().Render(fmt.Sprintf("Loaded %d assets.", report.Assets)))
	for _, warning := range report.Warnings {
		fmt.Fprintln(w, th.Warning().Render(fmt.Sprintf("%c %s", th.Symbols.Warn, warning)))
	}
	fmt.Fprintln(w, th.Success().Render("Created Bank: "+filepath.Base(report.Output)))
	return nil
}
