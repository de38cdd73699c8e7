package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"phrasebot/internal/morph"
	"phrasebot/internal/phrase"

	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Show how a message is tokenized and which words could fill a phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			book, err := phrase.LoadPhrasebook(cfg.Phrasebook.Path, logger)
			if err != nil {
				return err
			}
			analyzer, err := morph.NewAnalyzer()
			if err != nil {
				return fmt.Errorf("morphology: %w", err)
			}

			tokens := phrase.Tokenize(strings.Join(args, " "))
			out := cmd.OutOrStdout()

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TOKEN\tWORD\tPOS\tNORMAL")
			for _, tok := range tokens {
				p := analyzer.Parse(phrase.StripPunctuation(tok))
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tok, p.Word, p.POS, p.Normal)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			gen := phrase.NewGenerator(book, analyzer, newRand(cfg.General.Seed))
			candidates := gen.Candidates(tokens)
			if len(candidates) == 0 {
				fmt.Fprintln(out, "\nNo candidate words: a due chat would stay due.")
				return nil
			}
			fmt.Fprintf(out, "\nCandidates: %s\n", strings.Join(candidates, ", "))
			sample, _ := gen.Generate(tokens)
			fmt.Fprintf(out, "Sample phrase: %s\n", sample)
			return nil
		},
	}
}
