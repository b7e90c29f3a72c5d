package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/Brownie44l1/cxr-api/internal/client"
	"github.com/Brownie44l1/cxr-api/internal/config"
	"github.com/Brownie44l1/cxr-api/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load("predict", args)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 2
	}
	if len(cfg.Args) != 1 {
		fmt.Fprintln(stderr, "Usage: predict [-api-url URL] <path-to-xray-image>")
		return 2
	}

	logger, err := logging.New(cfg.DebugMode)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	upload, err := readUpload(cfg.Args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Failed to read image: %v\n", err)
		return 1
	}

	api := client.New(cfg.APIURL, &http.Client{Timeout: cfg.APITimeout}, logger)
	sess := client.NewSession(api, logger)
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Failures land in the session's error message.
	if sess.SelectFile(upload) == nil {
		_ = sess.Submit(ctx)
	}

	view := sess.View()
	if view.Error != "" || view.Result == nil {
		fmt.Fprintf(stderr, "Error: %s\n", firstNonEmpty(view.Error, client.MsgFallback))
		return 1
	}

	fmt.Fprintf(stdout, "Diagnosis:   %s\n", view.Result.Label)
	fmt.Fprintf(stdout, "Confidence:  %s\n", view.Result.Confidence)
	if view.Result.ExplanationURL != "" {
		fmt.Fprintf(stdout, "Explanation: %s\n", view.Result.ExplanationURL)
	}
	return 0
}

func readUpload(path string) (client.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return client.Upload{}, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return client.Upload{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
