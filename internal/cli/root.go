package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "subtity",
		Short: "Load, inspect and play subtitle files in many formats",
		Long: `Subtity keeps a library of subtitle documents (srt, webvtt, sbv,
ssa/ass, itt, usf, subti, lrc, rt, xml, dfxp/ttml), tracks which one is
active along with its playback offset, speed and style, and resolves the
lines that should be visible at any playback time.

Documents can be exported to srt, webvtt, ssa, lrc and subti, translated
with an LLM, extracted from video containers or transcribed from speech.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.persistSession(cmd.Context())
		},
	}

	root.PersistentFlags().
		BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().
		StringVar(&a.configPath, "config", "", "Config file (default ~/.subtity/config.toml)")
	root.PersistentFlags().
		StringVar(&a.libraryPath, "library", "", "Library database (default ~/.subtity/library.db)")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newUseCmd(a),
		newRemoveCmd(a),
		newExportCmd(a),
		newCueCmd(a),
		newPlayCmd(a),
		newToggleCmd(a),
		newStyleCmd(a),
		newLanguageCmd(a),
		newTranslateCmd(a),
		newExtractCmd(a),
		newTranscribeCmd(a),
	)

	return root, a
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, a := newRootCmd()
	defer a.close()
	return root.ExecuteContext(ctx)
}
