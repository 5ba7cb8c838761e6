// riskcheck runs one prediction from a JSON feature file against the loaded
// artifact. Operator smoke-tool; the daemon serves the same pipeline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cardioscan/heartrisk/internal/explain"
	"github.com/cardioscan/heartrisk/internal/model"
	"github.com/cardioscan/heartrisk/internal/pipeline"
	"github.com/cardioscan/heartrisk/internal/preprocess"
	"github.com/cardioscan/heartrisk/internal/risk"
	"github.com/cardioscan/heartrisk/internal/schema"
)

func main() {
	modelDir := flag.String("model-dir", "", "directory containing artifact.json (empty = embedded)")
	topK := flag.Int("top-k", 5, "number of contributors to show")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: riskcheck [flags] <features.json>")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fatal("read input: %v", err)
	}
	var in schema.FeatureInput
	if err := json.Unmarshal(raw, &in); err != nil {
		fatal("decode input: %v", err)
	}

	m, err := model.Load(*modelDir, logger)
	if err != nil {
		fatal("load model: %v", err)
	}
	cat, err := risk.NewCategorizer(risk.DefaultThresholds())
	if err != nil {
		fatal("categorizer: %v", err)
	}

	svc := pipeline.NewService(
		m,
		preprocess.NewTransformer(m.Artifact()),
		explain.NewExplainer(m),
		cat,
		nil, // no document extraction in the smoke-tool
		*topK,
		logger,
	)

	pred, err := svc.Predict(context.Background(), in)
	if err != nil {
		fatal("predict: %v", err)
	}

	out, _ := json.MarshalIndent(pred, "", "  ")
	fmt.Println(string(out))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
