package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfield/pkg/orchestrator"
	"github.com/goliatone/go-formfield/pkg/prompt"
	"github.com/goliatone/go-formfield/pkg/style"
)

const dataRenderer = "data"

func main() {
	formID := flag.String("form", "", "form id, or operation id with -openapi (optional when the source holds one form)")
	source := flag.String("source", "", "definition or OpenAPI document path (embedded definitions if empty)")
	openAPI := flag.Bool("openapi", false, "treat -source as an OpenAPI document")
	renderer := flag.String("renderer", "html", "renderer to use: html, term or data")
	output := flag.String("output", "", "output file (stdout if empty)")
	interactive := flag.Bool("interactive", false, "prompt for every field before rendering")
	maxAttempts := flag.Int("max-attempts", 0, "re-prompt limit for invalid fields (0 keeps asking)")
	errorsPath := flag.String("errors", "", "JSON file with a server error payload to map onto fields")
	themePath := flag.String("theme", "", "theme manifest YAML used for field styles")
	variant := flag.String("variant", "", "theme variant")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	options := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithSession(prompt.NewSession(
			prompt.WithLogger(logger),
			prompt.WithMaxAttempts(*maxAttempts),
		)),
	}
	if *themePath != "" {
		resolver, err := loadTheme(*themePath, *variant)
		if err != nil {
			logger.Fatal("load theme", zap.String("path", *themePath), zap.Error(err))
		}
		options = append(options, orchestrator.WithStyleResolver(resolver))
	}

	payload, err := loadErrors(*errorsPath)
	if err != nil {
		logger.Fatal("load error payload", zap.String("path", *errorsPath), zap.Error(err))
	}

	name := strings.TrimSpace(*renderer)
	req := orchestrator.Request{
		Path:        strings.TrimSpace(*source),
		OpenAPI:     *openAPI,
		FormID:      *formID,
		Interactive: *interactive,
		Errors:      payload,
		Renderer:    name,
		SkipRender:  name == dataRenderer,
	}

	gen := orchestrator.New(options...)
	result, err := gen.Generate(ctx, req)
	if err != nil {
		logger.Fatal("generate form", zap.String("form", *formID), zap.Error(err))
	}
	logger.Info("form generated",
		zap.String("form", result.Definition.ID),
		zap.Bool("valid", result.Valid),
		zap.Int("fields", result.Builder.Len()),
		zap.Strings("form_errors", result.FormErrors),
	)

	out := result.Output
	if req.SkipRender {
		out, err = json.MarshalIndent(map[string]any{
			"form":       result.Definition.ID,
			"valid":      result.Valid,
			"data":       result.Data,
			"formErrors": result.FormErrors,
		}, "", "  ")
		if err != nil {
			logger.Fatal("encode form data", zap.Error(err))
		}
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			logger.Fatal("write output", zap.String("path", *output), zap.Error(err))
		}
		fmt.Printf("Form written to %s\n", *output)
		return
	}
	fmt.Println(strings.TrimRight(string(out), "\n"))
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadTheme(path, variant string) (*style.ThemeResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	manifest, err := style.ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return style.FromManifest(manifest, variant), nil
}

func loadErrors(path string) (map[string][]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload map[string][]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return payload, nil
}
