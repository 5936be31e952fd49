package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"clipscribe/internal/clip"
	"clipscribe/internal/diag"
	"clipscribe/internal/pipeline"
	"clipscribe/internal/proxy"
	"clipscribe/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Temporary clip lives in the working directory and never survives a run.
const tempClip = "temp_60sec.mp3"

func main() {
	input := cli.StringP("input", "i", "public/The Picture of Dorian Gray by Oscar Wilde  Full audiobook.mp3", "Source audio file")
	output := cli.StringP("output", "o", "public/transcription.json", "Transcript JSON destination")
	seconds := cli.Uint("seconds", 60, "Clip length to transcribe, in seconds")
	backend := cli.StringP("backend", "b", "local", "Recognition backend: local or openai")
	model := cli.StringP("model", "m", "models/ggml-base.en.bin", "Whisper model path (local backend)")
	language := cli.String("language", "en", "Transcription language")
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	proxyAddr := cli.StringP("proxy", "p", "", "SOCKS proxy address for the openai backend (empty = direct)")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	godotenv.Load(*envFile)

	duration := time.Duration(*seconds) * time.Second

	checker := diag.NewChecker()
	if err := checker.FFmpeg(); err != nil {
		log.Error("Missing dependency", "err", err)
		os.Exit(1)
	}
	if err := checker.Input(*input); err != nil {
		log.Error("Missing input", "err", err)
		os.Exit(1)
	}

	var rec stt.Recognizer
	switch *backend {
	case "local":
		if err := checker.Model(*model); err != nil {
			log.Error("Missing dependency", "err", err)
			os.Exit(1)
		}
		log.Info("Loading whisper model", "path", *model)
		tr, err := stt.NewTranscriber(*model, stt.Options{
			Language:    *language,
			MaxDuration: duration,
		})
		if err != nil {
			log.Error("Failed to load whisper model", "err", err)
			os.Exit(1)
		}
		rec = tr
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			log.Error("OPENAI_API_KEY not set")
			os.Exit(1)
		}
		var httpClient *http.Client
		if *proxyAddr != "" {
			var err error
			httpClient, err = proxy.NewSocksClient(*proxyAddr)
			if err != nil {
				log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
				os.Exit(1)
			}
		}
		rec = stt.NewCloudRecognizer(apiKey, "", *language, httpClient)
	default:
		log.Error("Unknown backend", "backend", *backend)
		os.Exit(1)
	}
	defer rec.Close()

	runner := &pipeline.Runner{
		Truncator:  clip.NewExtractor(),
		Recognizer: rec,
	}

	sum, err := runner.Run(context.Background(), pipeline.Config{
		Input:    *input,
		Output:   *output,
		TempClip: tempClip,
		Duration: duration,
	})
	if err != nil {
		log.Error("Run failed", "err", err)
		os.Exit(1)
	}

	log.Info("Transcription complete", "words", sum.WordCount, "output", sum.Output)
	fmt.Println("First words:")
	for _, line := range sum.Preview {
		fmt.Println("  " + line)
	}
}
