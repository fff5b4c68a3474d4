package advice

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/wearcast/wearcast-api/internal/types"
)

// Fixed defaults used when no weather record and no parseable generated
// text are available. Every field of ClothingAdvice has one.
const (
	defaultTopWear       = "Comfortable shirt"
	defaultBottomWear    = "Long pants"
	defaultFootwear      = "Closed shoes"
	defaultOverallAdvice = "Dress comfortably for the current weather."
)

// cleanJSONResponse strips markdown fences and extracts the first { .. last }
// portion so a JSON object embedded in explanatory model text can be decoded.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	if strings.HasSuffix(response, "```") {
		response = strings.TrimSuffix(response, "```")
	}
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace == -1 || lastBrace <= firstBrace {
		return response
	}
	return strings.TrimSpace(response[firstBrace : lastBrace+1])
}

// ParseGenerated builds a ClothingAdvice from free-form generated text. The
// embedded JSON object is extracted and decoded permissively: absent fields
// take the fixed defaults and non-boolean carry flags decode to false. The
// function is total; when no usable JSON is found it returns Fallback(nil).
func ParseGenerated(text string) *types.ClothingAdvice {
	cleaned := cleanJSONResponse(text)
	if !strings.HasPrefix(cleaned, "{") {
		return Fallback(nil)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return Fallback(nil)
	}

	return &types.ClothingAdvice{
		ClothingType:  stringField(fields, "clothing_type", types.ClothingMedium),
		TopWear:       stringField(fields, "top_wear", defaultTopWear),
		BottomWear:    stringField(fields, "bottom_wear", defaultBottomWear),
		Footwear:      stringField(fields, "footwear", defaultFootwear),
		Accessories:   stringListField(fields, "accessories"),
		CarryUmbrella: boolField(fields, "carry_umbrella"),
		CarryJacket:   boolField(fields, "carry_jacket"),
		OverallAdvice: stringField(fields, "overall_advice", defaultOverallAdvice),
	}
}

func stringField(fields map[string]json.RawMessage, key, fallback string) string {
	raw, ok := fields[key]
	if !ok {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return fallback
	}
	return s
}

func stringListField(fields map[string]json.RawMessage, key string) []string {
	raw, ok := fields[key]
	if !ok {
		return []string{}
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// boolField decodes a boolean carry flag. Anything that is not JSON true
// (absent, null, string, number) reads as false rather than failing.
func boolField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// Fallback derives a ClothingAdvice from a weather record with the
// deterministic rule set. A nil record yields the fixed defaults. The
// function is total and never returns nil.
func Fallback(w *types.WeatherRecord) *types.ClothingAdvice {
	if w == nil {
		return &types.ClothingAdvice{
			ClothingType:  types.ClothingMedium,
			TopWear:       defaultTopWear,
			BottomWear:    defaultBottomWear,
			Footwear:      defaultFootwear,
			Accessories:   []string{},
			CarryUmbrella: false,
			CarryJacket:   false,
			OverallAdvice: defaultOverallAdvice,
		}
	}

	t := w.Temperature
	hasRain := strings.Contains(strings.ToLower(w.Description), "rain")

	clothingType := types.ClothingMedium
	topWear := "Long-sleeve shirt"
	switch {
	case t < 15:
		clothingType = types.ClothingHeavy
		topWear = "Warm sweater"
	case t > 25:
		clothingType = types.ClothingLight
		topWear = "Light t-shirt"
	}

	bottomWear := "Comfortable trousers"
	if t < 15 {
		bottomWear = "Warm pants"
	}

	footwear := "Comfortable shoes"
	accessories := []string{}
	if hasRain {
		footwear = "Waterproof shoes"
		accessories = append(accessories, "Umbrella")
	}

	return &types.ClothingAdvice{
		ClothingType:  clothingType,
		TopWear:       topWear,
		BottomWear:    bottomWear,
		Footwear:      footwear,
		Accessories:   accessories,
		CarryUmbrella: hasRain,
		CarryJacket:   t < 18,
		OverallAdvice: fmt.Sprintf("Dress appropriately for %d°C weather", int(math.Round(t))),
	}
}
