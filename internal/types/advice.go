package types

// ClothingAdvice is a recommendation derived from a WeatherRecord, either by
// the generative provider or by the deterministic fallback rules. Every field
// is always populated; advice is recomputed after each successful fetch and
// never persisted.
type ClothingAdvice struct {
	ClothingType  string   `json:"clothing_type"`
	TopWear       string   `json:"top_wear"`
	BottomWear    string   `json:"bottom_wear"`
	Footwear      string   `json:"footwear"`
	Accessories   []string `json:"accessories"`
	CarryUmbrella bool     `json:"carry_umbrella"`
	CarryJacket   bool     `json:"carry_jacket"`
	OverallAdvice string   `json:"overall_advice"`
}

// Clothing weight classes emitted in ClothingType.
const (
	ClothingLight  = "light"
	ClothingMedium = "medium"
	ClothingHeavy  = "heavy"
)
