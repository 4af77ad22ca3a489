package config

// SampleConfig returns a documented configuration file with every option
func SampleConfig() string {
	return `# ProtoLens configuration
version: "1.0"

ai:
  # gemini | openai | ollama
  provider: gemini
  # Leave empty for the provider default (gemini-2.5-flash, gpt-4o-mini, llama3.1)
  model: ""
  # Prefer PROTOLENS_AI_API_KEY, GEMINI_API_KEY or API_KEY in the environment
  api_key: ""
  # Override the service endpoint, e.g. http://localhost:11434 for ollama
  base_url: ""
  # Upper bound for one analysis request; 0 waits for the service
  timeout: 0s
  # 0 uses the provider default
  max_tokens: 0
  temperature: 0

output:
  # text | json | markdown | html | csv
  default_format: text
  # auto | always | never
  color_mode: auto
  emoji: true
  # default | high-contrast | minimal
  theme: default
  # Logs are written here while the interactive view is open
  log_file: ""

editor:
  line_numbers: true
  # 0 means unlimited
  char_limit: 0
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
ai:
  provider: gemini
output:
  default_format: text
`
}
