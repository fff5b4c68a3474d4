package advice

import (
	"fmt"

	"github.com/wearcast/wearcast-api/internal/types"
)

func getClothingAdvicePrompt(w *types.WeatherRecord) string {
	return fmt.Sprintf(`
            You are a clothing assistant. The current weather is:
            - Temperature: %.1f°C (feels like %.1f°C)
            - Conditions: %s
            - Humidity: %.0f%%
            - Wind speed: %.1f m/s
            Recommend what to wear today. Respond with ONLY a JSON object, no other text:
            {
            "clothing_type": "light | medium | heavy",
            "top_wear": "Specific top garment suggestion",
            "bottom_wear": "Specific bottom garment suggestion",
            "footwear": "Specific footwear suggestion",
            "accessories": ["Accessory 1", "Accessory 2"],
            "carry_umbrella": <bool>,
            "carry_jacket": <bool>,
            "overall_advice": "One sentence summarising how to dress."
            }`, w.Temperature, w.FeelsLike, w.Description, w.Humidity, w.WindSpeed)
}
