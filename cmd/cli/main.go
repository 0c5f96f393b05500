package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"screen-answerer/config"
	"screen-answerer/crop"
	"screen-answerer/llm"
	"screen-answerer/ocr"
)

const (
	maxFileSizeMB = 10
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

type cliOptions struct {
	filePath   string
	jsonOutput bool
	verbose    bool
	types      []string
	scope      string
	cropSpec   string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(os.Args)
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"answer-tool"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "answer-tool",
		Short:         "Recognize a question from a PNG screenshot and fetch an answer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to PNG file (use '-' for stdin)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().StringSliceVar(&opts.types, "types", nil, "Question type labels for the prompt")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "Subject scope hint for the prompt")
	cmd.Flags().StringVar(&opts.cropSpec, "crop", "", "Crop region x1,y1,x2,y2 applied before recognition")
	_ = cmd.MarkFlagRequired("file")

	cmd.AddCommand(newPingCmd(opts))

	return cmd
}

func newPingCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured answer endpoint responds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := loadClient(*opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			start := time.Now()
			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}
			fmt.Printf("OK: %s responded in %v (model %s)\n", cfg.APIURL, time.Since(start).Round(time.Millisecond), cfg.Model)
			return nil
		},
	}
}

func loadClient(opts cliOptions) (*config.Config, *llm.Client, error) {
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.APIURL == "" {
		return nil, nil, fmt.Errorf("API_URL is required in .env file")
	}
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("API_KEY is required in .env file")
	}
	if cfg.Model == "" {
		return nil, nil, fmt.Errorf("MODEL is required in .env file")
	}

	client := llm.NewClient(llm.Config{APIURL: cfg.APIURL, APIKey: cfg.APIKey, Model: cfg.Model})
	return cfg, client, nil
}

func runWithOptions(opts cliOptions) error {
	cfg, client, err := loadClient(opts)
	if err != nil {
		return err
	}

	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Config loaded: Model=%s\n", cfg.Model)
	}

	types := opts.types
	if len(types) == 0 {
		types = cfg.QuestionTypes
	}
	scope := opts.scope
	if scope == "" {
		scope = cfg.QuestionScope
	}

	imageData, err := readImage(opts.filePath, opts.verbose)
	if err != nil {
		return err
	}

	return answerImage(client, imageData, opts.filePath, types, scope, cfg, opts)
}

func readImage(filePath string, verbose bool) ([]byte, error) {
	var imageData []byte
	var err error

	if filePath == "-" {
		if verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Reading image from stdin\n")
		}
		imageData, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		if verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Reading image from file: %s\n", filePath)
		}
		imageData, err = os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
		}
	}

	if len(imageData) == 0 {
		return nil, fmt.Errorf("input file is empty")
	}
	if len(imageData) > maxFileSize {
		return nil, fmt.Errorf("input file exceeds maximum size of %d MB", maxFileSizeMB)
	}
	if len(imageData) < 8 || !bytes.Equal(imageData[:8], []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}) {
		return nil, fmt.Errorf("input is not a valid PNG file (invalid magic number)")
	}

	return imageData, nil
}

func answerImage(client *llm.Client, imageData []byte, sourcePath string, types []string, scope string, cfg *config.Config, opts cliOptions) error {
	engine, err := ocr.NewEngine(cfg.OCRLanguages...)
	if err != nil {
		return fmt.Errorf("failed to initialize OCR engine: %w", err)
	}
	defer engine.Close()

	frame, err := crop.DecodePNG(bytes.NewReader(imageData))
	if err != nil {
		return fmt.Errorf("failed to decode PNG: %w", err)
	}
	if opts.cropSpec != "" {
		region, err := parseCropSpec(opts.cropSpec)
		if err != nil {
			return err
		}
		cropped, err := frame.Crop(region)
		frame.Release()
		if err != nil {
			return fmt.Errorf("crop failed: %w", err)
		}
		frame = cropped
		if opts.verbose {
			fmt.Fprintf(os.Stderr, "[verbose] Cropped to %s\n", region)
		}
	}
	defer frame.Release()

	ctx := context.Background()

	start := time.Now()
	text, err := engine.Recognize(ctx, frame)
	if err != nil {
		return fmt.Errorf("text recognition failed: %w", err)
	}
	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Recognized %d characters in %v\n", len(text), time.Since(start))
	}

	start = time.Now()
	answer, err := client.Analyze(ctx, text, types, scope)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("answer fetch failed: %w", err)
	}
	if opts.verbose {
		fmt.Fprintf(os.Stderr, "[verbose] Answer fetched in %v\n", elapsed)
	}

	return outputResult(answer, text, sourcePath, elapsed, opts.jsonOutput, cfg)
}

// parseCropSpec reads a region as four comma-separated corner coordinates,
// x1,y1,x2,y2 in source-image pixels.
func parseCropSpec(spec string) (crop.Region, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return crop.Region{}, fmt.Errorf("crop must be x1,y1,x2,y2, got %q", spec)
	}
	vals := make([]int, 4)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return crop.Region{}, fmt.Errorf("crop coordinate %q is not an integer", part)
		}
		vals[i] = v
	}
	return crop.Region{
		TopLeft:     crop.Point{X: vals[0], Y: vals[1]},
		BottomRight: crop.Point{X: vals[2], Y: vals[3]},
	}, nil
}

type cliResult struct {
	Question     string  `json:"question,omitempty"`
	QuestionType string  `json:"question_type"`
	Answer       string  `json:"answer"`
	Recognized   string  `json:"recognized_text"`
	Source       string  `json:"source"`
	Timestamp    string  `json:"timestamp"`
	Duration     float64 `json:"duration_seconds"`
}

func outputResult(answer llm.Answer, recognized, sourcePath string, elapsed time.Duration, jsonOutput bool, cfg *config.Config) error {
	if jsonOutput {
		result := cliResult{
			Question:     answer.Question,
			QuestionType: answer.QuestionType,
			Answer:       answer.Answer,
			Recognized:   recognized,
			Source:       sourcePath,
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Duration:     elapsed.Seconds(),
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	}

	fmt.Println(answer.Format(cfg.ShowQuestion, cfg.ShowOptions))
	return nil
}
