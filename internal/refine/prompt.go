package refine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

const defaultSystemPrompt = `You are an expert UI/UX designer and prompt engineer specializing in website and web application concepts.

Your task is to transform rough, unpolished website ideas into clear, detailed, and professional prompts that can be used to create stunning websites.

When refining a prompt:
1. Expand on the core concept with specific features and functionality
2. Suggest modern design elements, color schemes, and visual styles
3. Include user experience considerations
4. Add technical specifications when relevant
5. Maintain the original intent while elevating the quality
6. Structure the output clearly with sections if the idea is complex

Keep the refined prompt concise yet comprehensive (typically 150-300 words). Make it actionable and specific enough that a designer or developer could immediately start working on it.

Format your response using markdown for better readability:
- Use **bold** for emphasis on key features
- Use bullet points for lists
- Use headings (##) for sections when the concept is complex
- Use ` + "`code`" + ` formatting for technical terms`

// Settings are the generation parameters for a refinement. They can be
// overridden from a YAML file so prompt tweaks don't require a rebuild.
type Settings struct {
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
	SystemPrompt string  `yaml:"system_prompt"`
}

func DefaultSettings() Settings {
	return Settings{
		Model:        "gpt-4o-mini",
		Temperature:  0.7,
		MaxTokens:    1000,
		SystemPrompt: defaultSystemPrompt,
	}
}

// LoadSettings reads overrides from a YAML file on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("error reading settings file '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("error parsing settings file '%s': %w", path, err)
	}

	return settings, nil
}

func userPrompt(idea string) string {
	return fmt.Sprintf("Please refine the following rough website idea into a polished, detailed prompt:\n\n\"%s\"", idea)
}
