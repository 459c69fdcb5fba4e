package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/overlap/internal/extract"
	overlap "github.com/kailas-cloud/overlap/pkg/sdk"
)

type compareOptions struct {
	workers   int
	threshold float64
	algorithm string
	jsonOut   bool
	verbose   bool
}

func newCompareCmd() *cobra.Command {
	opts := &compareOptions{}
	cmd := &cobra.Command{
		Use:   "compare FILE FILE...",
		Short: "Compare documents pairwise",
		Long: `Compare every pair of the given files and print their similarity.

Plain text, Markdown, DOCX and PDF files are supported. PDFs need a text
layer; scanned pages without one yield no text. Each file is identified
by the path it was given as.

Examples:
  # Show all pairs
  overlapctl compare essays/*.txt

  # Only suspicious pairs, as JSON
  overlapctl compare --threshold 0.8 --json essays/*.docx

  # Mixed formats
  overlapctl compare alice.pdf bob.docx carol.txt`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, opts)
		},
	}
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent pair scorers (default: number of CPUs)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "only print pairs scoring at least this value")
	cmd.Flags().StringVar(&opts.algorithm, "algorithm", "", "similarity algorithm (default: cosine_tfidf)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log degraded pairs to stderr")
	return cmd
}

type compareOutput struct {
	Algorithm string       `json:"algorithm"`
	Documents int          `json:"documents"`
	Pairs     int          `json:"comparisons"`
	Degraded  int          `json:"degraded"`
	Threshold float64      `json:"threshold"`
	Matches   []pairOutput `json:"matches"`
}

type pairOutput struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

func runCompare(ctx context.Context, stdout, stderr io.Writer, files []string, opts *compareOptions) error {
	if opts.threshold < 0 || opts.threshold > 1 {
		return fmt.Errorf("threshold must be between 0 and 1, got %v", opts.threshold)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	docs, err := readDocuments(files)
	if err != nil {
		return err
	}

	clientOpts := []overlap.Option{
		overlap.WithWorkers(opts.workers),
		overlap.WithAlgorithm(opts.algorithm),
	}
	if opts.verbose {
		clientOpts = append(clientOpts, overlap.WithLogger(slog.New(slog.NewTextHandler(stderr, nil))))
	}
	client, err := overlap.New(clientOpts...)
	if err != nil {
		return err
	}

	res, err := client.Compare(ctx, docs)
	if err != nil {
		return err
	}

	out := compareOutput{
		Algorithm: res.Algorithm,
		Documents: res.Documents,
		Pairs:     len(res.Pairs),
		Degraded:  res.Degraded,
		Threshold: opts.threshold,
		Matches:   []pairOutput{},
	}
	for _, p := range res.Above(opts.threshold) {
		out.Matches = append(out.Matches, pairOutput{A: p.A, B: p.B, Score: p.Score})
	}

	if opts.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return writeTable(stdout, out)
}

func readDocuments(files []string) ([]overlap.Document, error) {
	docs := make([]overlap.Document, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", f, err)
		}
		text, err := extract.Extract(f, content)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from %s: %w", f, err)
		}
		docs = append(docs, overlap.Document{ID: f, Text: text})
	}
	return docs, nil
}

func writeTable(w io.Writer, out compareOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCUMENT A\tDOCUMENT B\tSCORE")
	for _, m := range out.Matches {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\n", m.A, m.B, m.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d documents, %d comparisons, %d matches, %d degraded\n",
		out.Documents, out.Pairs, len(out.Matches), out.Degraded)
	return err
}
