package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/bookreviews/internal/sentiment"
)

// AnalyzeCommand scores text with the review sentiment rules.
type AnalyzeCommand struct {
	Text string
	JSON bool

	Input  io.Reader
	Output io.Writer
}

func NewAnalyzeCommand() *AnalyzeCommand {
	return &AnalyzeCommand{Input: os.Stdin, Output: os.Stdout}
}

func (cmd *AnalyzeCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)

	fs.StringVar(&cmd.Text, "text", "", "Text to analyze (reads stdin when empty)")
	fs.BoolVar(&cmd.JSON, "json", false, "Print the result as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s analyze [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Score review text as positive, neutral or negative.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s analyze -text \"I loved this book\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  echo \"boring and slow\" | %s analyze -json\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *AnalyzeCommand) Run() error {
	text := cmd.Text
	if text == "" {
		data, err := io.ReadAll(cmd.Input)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to analyze")
	}

	result := sentiment.Analyze(text)

	if cmd.JSON {
		enc := json.NewEncoder(cmd.Output)
		return enc.Encode(result)
	}

	fmt.Fprintf(cmd.Output, "%s %s (score %d)\n", result.Emoji, result.Label, result.Score)
	return nil
}
