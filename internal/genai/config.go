package genai

import "os"

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Model names used by the generation pipeline: a light text model for
// garment grounding and the image model for fusion output.
const (
	ModelText  = "gemini-2.5-flash"
	ModelImage = "gemini-2.5-flash-image"
)

type Config struct {
	APIKey  string
	BaseURL string
}

func NewConfig() *Config {
	key := os.Getenv("GOOGLE_API_KEY")
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	return &Config{
		APIKey:  key,
		BaseURL: DefaultBaseURL,
	}
}
