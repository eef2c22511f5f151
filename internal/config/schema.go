package config

// ModelPreset selects a provider model plus sampling parameters.
type ModelPreset struct {
	Provider    string  `mapstructure:"provider" json:"provider" jsonschema:"enum=openai,enum=anthropic,enum=googleai" validate:"required,oneof=openai anthropic googleai"`
	Name        string  `mapstructure:"name" json:"name" validate:"required"`
	MaxTokens   int     `mapstructure:"maxTokens" json:"maxTokens" jsonschema:"description=Maximum tokens per completion"`
	Temperature float64 `mapstructure:"temperature" json:"temperature" validate:"gte=0,lte=2"`
}

// StepSpec declares one chain step by template name.
type StepSpec struct {
	Template string   `mapstructure:"template" json:"template" validate:"required"`
	Inputs   []string `mapstructure:"inputs,omitempty" json:"inputs,omitempty" jsonschema:"description=Variables the step requires; defaults to the template's placeholders"`
	Produces string   `mapstructure:"produces" json:"produces" jsonschema:"description=Binding name the step's parsed output is stored under"`
}

// ChainSpec is an ordered sequence of steps.
type ChainSpec struct {
	Description string     `mapstructure:"description" json:"description,omitempty"`
	Steps       []StepSpec `mapstructure:"steps" json:"steps" validate:"required,min=1,dive"`
}

// Log configures the slog handler.
type Log struct {
	LogLevel string `mapstructure:"logLevel" json:"logLevel" jsonschema:"enum=DEBUG,enum=INFO,enum=WARN,enum=ERROR"`
	LogFile  string `mapstructure:"logFile" json:"logFile" jsonschema:"description=Log file path; stderr when empty"`
}

// Server configures the HTTP job API.
type Server struct {
	Port int `mapstructure:"port" json:"port" validate:"gte=0,lte=65535"`
}

type ConfigSchema struct {
	Models      map[string]ModelPreset `mapstructure:"models" json:"models" validate:"required,min=1,dive"`
	ActiveModel string                 `mapstructure:"activeModel" json:"activeModel" validate:"required"`
	Chains      map[string]ChainSpec   `mapstructure:"chains" json:"chains" validate:"required,min=1,dive"`
	PromptsPath string                 `mapstructure:"promptsPath" json:"promptsPath" jsonschema:"description=Prompt document path; embedded defaults when empty"`
	DBPath      string                 `mapstructure:"dbPath" json:"dbPath" validate:"required"`
	OutputDir   string                 `mapstructure:"outputDir" json:"outputDir" validate:"required"`
	Simulate    bool                   `mapstructure:"simulate" json:"simulate" jsonschema:"description=Force simulated completions even when credentials exist"`
	Log         Log                    `mapstructure:"log" json:"log"`
	Server      Server                 `mapstructure:"server" json:"server"`
}
