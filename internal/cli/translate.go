package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subtity/internal/config"
	"github.com/mgpai22/subtity/internal/subtitle"
	"github.com/mgpai22/subtity/internal/translate"
)

func newTranslateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [title]",
		Short: "Translate a document with an LLM and add the result",
		Long: `Translate a document (the active one unless a title is given) using
an LLM provider, then add the translation to the library as TITLE.LANG.

API keys are read from --api-key or from GEMINI_API_KEY, OPENAI_API_KEY
or ANTHROPIC_API_KEY depending on the provider.

Examples:
  subtity translate -t Spanish
  subtity translate movie.srt -t French --provider openai --model gpt-4o
  subtity translate -t Japanese --overlay -o movie.ja.srt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetLang, _ := cmd.Flags().GetString("target-language")
			inputLang, _ := cmd.Flags().GetString("input-language")
			providerStr, _ := cmd.Flags().GetString("provider")
			model, _ := cmd.Flags().GetString("model")
			apiKey, _ := cmd.Flags().GetString("api-key")
			prompt, _ := cmd.Flags().GetString("prompt")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			batchSize, _ := cmd.Flags().GetInt("batch-size")
			overlay, _ := cmd.Flags().GetBool("overlay")
			outputPath, _ := cmd.Flags().GetString("output")
			title, _ := cmd.Flags().GetString("title")

			var doc *subtitle.Document
			if len(args) == 1 {
				d, ok := a.store.Get(args[0])
				if !ok {
					return fmt.Errorf("no document titled %q", args[0])
				}
				doc = d
			} else {
				d, err := a.current()
				if err != nil {
					return err
				}
				doc = d
			}

			settings := a.cfg.Translate
			if providerStr == "" {
				providerStr = settings.Provider
			}
			if model == "" {
				model = settings.Model
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = settings.Concurrency
			}
			if !cmd.Flags().Changed("batch-size") {
				batchSize = settings.BatchSize
			}
			if apiKey == "" {
				apiKey = config.APIKeyFromEnv(providerStr)
			}
			if apiKey == "" {
				return fmt.Errorf("no API key for %s, use --api-key or set the environment variable", providerStr)
			}

			opts := translate.Options{
				InputLanguage:     inputLang,
				TargetLanguage:    targetLang,
				Model:             model,
				Prompt:            prompt,
				BatchSize:         batchSize,
				Concurrency:       concurrency,
				RequestsPerSecond: settings.RequestsPerSecond,
			}

			translator, err := translate.Factory(cmd.Context(), translate.Provider(providerStr), apiKey, opts)
			if err != nil {
				return fmt.Errorf("failed to create translator: %w", err)
			}

			if title == "" {
				title = derivedTitle(doc.Title, targetLang)
			}

			a.logger.Infow("Translating",
				"title", doc.Title,
				"cues", doc.Count,
				"provider", providerStr,
				"target", targetLang,
			)
			start := time.Now()

			translated, err := translate.Document(cmd.Context(), translator, doc, title, overlay, opts)
			if err != nil {
				return err
			}

			format := doc.Format
			text, err := subtitle.Export(format, translated)
			if errors.Is(err, subtitle.ErrExportUnsupported) {
				format = subtitle.FormatSRT
				text, err = subtitle.Export(format, translated)
			}
			if err != nil {
				return err
			}

			if _, err := a.addDocument(cmd.Context(), title, text, format, doc.MovieRef); err != nil {
				return err
			}
			if outputPath != "" {
				if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
			}

			a.logger.Infow("Translation complete",
				"title", title,
				"duration", time.Since(start).Round(time.Millisecond),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", title)
			return nil
		},
	}

	cmd.Flags().StringP("target-language", "t", "", "Target language (required)")
	cmd.Flags().StringP("input-language", "l", "", "Source language (optional, auto-detected)")
	cmd.Flags().String("provider", "", "Translation provider: gemini, openai, anthropic (default from config)")
	cmd.Flags().String("model", "", "Model name (default from config)")
	cmd.Flags().StringP("api-key", "k", "", "API key for the provider")
	cmd.Flags().String("prompt", "", "Additional instructions for the model")
	cmd.Flags().Int("concurrency", translate.DefaultConcurrency, "Batches translated in parallel")
	cmd.Flags().Int("batch-size", translate.DefaultBatchSize, "Cues per request")
	cmd.Flags().Bool("overlay", false, "Keep the original lines above the translation")
	cmd.Flags().StringP("output", "o", "", "Also write the translation to this file")
	cmd.Flags().String("title", "", "Title for the translated document (default TITLE.LANG)")
	_ = cmd.MarkFlagRequired("target-language")
	return cmd
}
