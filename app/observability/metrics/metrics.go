package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	ChatTurnsTotal          metric.Int64Counter
	ChatTurnDurationSeconds metric.Float64Histogram
	DaysGeneratedTotal      metric.Int64Counter
	LLMCallErrorsTotal      metric.Int64Counter
	CollaboratorFallbacks   metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("wanderplan")
		var err error
		m := &AppMetrics{}

		m.ChatTurnsTotal, err = meter.Int64Counter(
			"chat_turns_total",
			metric.WithDescription("Total number of conversation turns processed"),
			metric.WithUnit("{turn}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_turns_total: %v", err)
		}

		m.ChatTurnDurationSeconds, err = meter.Float64Histogram(
			"chat_turn_duration_seconds",
			metric.WithDescription("Duration of conversation turns in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_turn_duration_seconds: %v", err)
		}

		m.DaysGeneratedTotal, err = meter.Int64Counter(
			"days_generated_total",
			metric.WithDescription("Total number of day plans generated"),
			metric.WithUnit("{day}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create days_generated_total: %v", err)
		}

		m.LLMCallErrorsTotal, err = meter.Int64Counter(
			"llm_call_errors_total",
			metric.WithDescription("Total number of failed LLM completion calls"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_call_errors_total: %v", err)
		}

		m.CollaboratorFallbacks, err = meter.Int64Counter(
			"collaborator_fallbacks_total",
			metric.WithDescription("Total times a search/LLM collaborator fell back to static data"),
			metric.WithUnit("{fallback}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create collaborator_fallbacks_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		// This indicates a programming error - InitAppMetrics must be called at startup.
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// TryGet returns the instruments or nil when metrics are not initialized,
// so library code (and its tests) can record without forcing init.
func TryGet() *AppMetrics {
	return appMetrics
}
