package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subtity/internal/player"
)

func newStyleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "style [key] [value]",
		Short: "Change a style setting",
		Long: `Change a style setting of the current session and save it as the
default in the config file.

Keys: family, size, lineSpacing, color, align, direction, outlineColor,
outlineSize, shadowColor, shadowBlur, shadowX, shadowY, opacity, base,
left, weight, background.

Examples:
  subtity style color "rgb(255,255,0)"
  subtity style size 24`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if _, err := a.cfg.Style.Set(key, value); err != nil {
				return err
			}
			if err := a.store.Set(key, value); err != nil {
				return err
			}
			if err := a.cfg.Save(a.configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			canonical, _ := player.StyleKey(key)
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", canonical, value)
			return nil
		},
	}
}

func newLanguageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "language [code]",
		Short: "Switch the language track of a multi-language document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.current()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if len(doc.Languages) == 0 {
					fmt.Fprintf(out, "%s has a single language\n", doc.Title)
					return nil
				}
				for _, lang := range doc.Languages {
					marker := "  "
					if lang == doc.Language {
						marker = "* "
					}
					fmt.Fprintln(out, marker+lang)
				}
				return nil
			}

			if err := a.store.SwitchLanguage(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(out, "Switched %s to %s\n", doc.Title, args[0])
			return nil
		},
	}
}
