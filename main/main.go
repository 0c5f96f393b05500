package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"screen-answerer/capture"
	"screen-answerer/clipboard"
	"screen-answerer/config"
	"screen-answerer/crop"
	"screen-answerer/gui"
	"screen-answerer/hotkey"
	"screen-answerer/llm"
	"screen-answerer/logutil"
	"screen-answerer/notify"
	"screen-answerer/ocr"
	"screen-answerer/pipeline"
	"screen-answerer/tray"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logutil.Setup(cfg.EnableFileLogging)

	if cfg.APIURL == "" {
		log.Fatalf("API_URL is required. Please set it in your .env file.")
	}
	if cfg.APIKey == "" {
		log.Fatalf("API_KEY is required. Please set it in your .env file.")
	}
	if cfg.Model == "" {
		log.Fatalf("MODEL is required. Please set it in your .env file.")
	}

	mode, err := crop.ParseMode(cfg.CropMode)
	if err != nil {
		log.Fatalf("Invalid CROP_MODE: %v", err)
	}

	// Validate the answer backend before anything else so a bad key or URL
	// surfaces as a blocking dialog instead of a silent resident.
	client := llm.NewClient(llm.Config{APIURL: cfg.APIURL, APIKey: cfg.APIKey, Model: cfg.Model})
	if err := client.Ping(context.Background()); err != nil {
		notify.ShowBlockingError("Answer service unavailable",
			fmt.Sprintf("Startup check failed: %v\n\nPlease verify your API key and network connectivity.", err))
		os.Exit(1)
	}
	log.Printf("Answer service ping succeeded (model %s, key %s)", cfg.Model, logutil.RedactKey(cfg.APIKey))

	engine, err := ocr.NewEngine(cfg.OCRLanguages...)
	if err != nil {
		notify.ShowBlockingError("OCR unavailable", fmt.Sprintf("Failed to initialize OCR engine: %v", err))
		os.Exit(1)
	}
	defer engine.Close()

	if err := clipboard.Init(); err != nil {
		log.Fatalf("Failed to initialize clipboard: %v", err)
	}

	source := capture.NewSource(nil)
	source.Initialize(capture.DesktopGrant())

	settings := config.NewStore(cfg)
	pipe := pipeline.New(pipeline.Config{
		Capture:      source,
		Extractor:    engine,
		Answerer:     client,
		SelectRegion: gui.SelectRegion,
		Clipboard:    clipboard.Sink{},
		Presenter:    notify.New(),
		Settings:     settings,
		CropMode:     mode,
		TempDir:      cfg.TempDir,
	})

	log.Printf("Screen Answerer initialized")
	log.Printf("Hotkey: %s, crop mode: %s", cfg.Hotkey, mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hotkey.Listen(cfg.Hotkey, func() { pipe.Trigger(ctx) })
	defer hotkey.Stop()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		tray.Quit()
	}()

	// Blocks until Quit is chosen or a signal arrives.
	tray.Run(tray.Options{
		Settings:  settings,
		OnCapture: func() { pipe.Trigger(ctx) },
		OnReset:   pipe.ResetSession,
		OnQuit: func() {
			cancel()
			pipe.Shutdown()
		},
	})

	log.Printf("Screen Answerer exiting")
}
