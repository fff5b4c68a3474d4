package advice

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/wearcast/wearcast-api/app/observability/metrics"
	"github.com/wearcast/wearcast-api/internal/types"
)

var _ Generator = (*GeneratorImpl)(nil)

// AIClient is the slice of the generative client the generator needs.
type AIClient interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// Generator produces a ClothingAdvice for a weather record. The advice value
// is always non-nil; a non-nil error reports that the generative call failed
// and the value is the deterministic fallback. The caller owns the policy of
// degrading silently.
type Generator interface {
	Generate(ctx context.Context, w *types.WeatherRecord) (*types.ClothingAdvice, error)
}

type GeneratorImpl struct {
	logger *slog.Logger
	ai     AIClient
}

func NewGenerator(ai AIClient, logger *slog.Logger) *GeneratorImpl {
	return &GeneratorImpl{
		logger: logger,
		ai:     ai,
	}
}

func (g *GeneratorImpl) Generate(ctx context.Context, w *types.WeatherRecord) (*types.ClothingAdvice, error) {
	ctx, span := otel.Tracer("adviceGenerator").Start(ctx, "Generate", trace.WithAttributes(
		attribute.Float64("weather.temperature", w.Temperature),
		attribute.String("weather.description", w.Description),
	))
	defer span.End()

	l := g.logger.With(slog.String("method", "Generate"))
	m := metrics.Get()
	m.AdviceGenerationsTotal.Add(ctx, 1)

	prompt := getClothingAdvicePrompt(w)
	config := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.2)}

	txt, err := g.ai.GenerateContent(ctx, prompt, config)
	if err != nil {
		m.AdviceFallbacksTotal.Add(ctx, 1)
		l.WarnContext(ctx, "Generative call failed, using fallback advice", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generative call failed")
		return Fallback(w), fmt.Errorf("%w: %v", types.ErrAdviceGeneration, err)
	}
	if txt == "" {
		m.AdviceFallbacksTotal.Add(ctx, 1)
		l.WarnContext(ctx, "Generative call returned no candidates, using fallback advice")
		span.SetStatus(codes.Error, "Empty generative response")
		return Fallback(w), fmt.Errorf("%w: empty response", types.ErrAdviceGeneration)
	}

	l.DebugContext(ctx, "Parsing generated advice", slog.Int("response_len", len(txt)))
	span.SetStatus(codes.Ok, "Advice generated successfully")
	return ParseGenerated(txt), nil
}
