package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/outwell/callscope/internal/config"
	"github.com/outwell/callscope/internal/engine"
	"github.com/outwell/callscope/internal/llm"
	"github.com/outwell/callscope/internal/model"
	"github.com/outwell/callscope/internal/parser"
	"github.com/outwell/callscope/internal/prompt"
	"github.com/outwell/callscope/internal/storage"
	"github.com/outwell/callscope/internal/taxonomy"
	"github.com/spf13/viper"
)

// initStorage opens the database, runs migrations, and wires the cost rates.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/callscope/callscope.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store.SetCostRates(costRatesFromConfig())
	return store, nil
}

// initTaxonomy builds and validates the taxonomy config.
func initTaxonomy() (*taxonomy.Config, error) {
	tax := taxonomy.Default()
	if err := tax.Validate(); err != nil {
		return nil, fmt.Errorf("invalid taxonomy: %w", err)
	}
	return tax, nil
}

// initEngine wires a processing engine from viper configuration.
func initEngine(store *storage.SQLiteStorage) (*engine.Engine, error) {
	tax, err := initTaxonomy()
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		Temperature: viper.GetFloat64("llm.temperature"),
		Timeout:     viper.GetDuration("llm.timeout"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return engine.New(engine.Deps{
		Calls:       store,
		Tenants:     store,
		Transitions: store,
		Objections:  store,
		Costs:       store,
		Audit:       store,
		Client:      client,
		Parser:      parser.New(tax),
		Prompts:     prompt.NewBuilder(tax),
		IDs:         storage.UUIDGenerator{},
	}, engine.Config{
		Model:     viper.GetString("llm.model"),
		MaxTokens: viper.GetInt("llm.max_tokens"),
	}), nil
}

// costRatesFromConfig reads per-million token rates from configuration.
// Models live under costs.models.<name>.{input,output}_per_million.
func costRatesFromConfig() model.CostRates {
	rates := model.CostRates{
		Models: make(map[string]model.ModelRate),
		Default: model.ModelRate{
			InputPerMillion:  viper.GetFloat64("costs.default.input_per_million"),
			OutputPerMillion: viper.GetFloat64("costs.default.output_per_million"),
		},
	}

	for name := range viper.GetStringMap("costs.models") {
		prefix := "costs.models." + name
		rates.Models[name] = model.ModelRate{
			InputPerMillion:  viper.GetFloat64(prefix + ".input_per_million"),
			OutputPerMillion: viper.GetFloat64(prefix + ".output_per_million"),
		}
	}
	return rates
}

func formatDuration(ms int64) string {
	return time.Duration(ms * int64(time.Millisecond)).Round(10 * time.Millisecond).String()
}

// readTranscript loads a transcript from a file path.
func readTranscript(path string) (string, error) {
	data, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	return string(data), nil
}
