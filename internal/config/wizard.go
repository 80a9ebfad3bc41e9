package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .asha.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to asha-server! Let's configure your deployment.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. LLM provider.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"groq", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	preset := GetPreset(cfg.Provider)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: preset.Model,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	cfg.Model = strings.TrimSpace(model)

	// 3. Web search backend.
	searchPrompt := promptui.Select{
		Label: "Select web-search backend",
		Items: []string{"serper", "brave"},
	}
	_, searchStr, err := searchPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("search selection: %w", err)
	}
	cfg.SearchProvider = SearchProviderType(searchStr)

	// 4. Dataset directory.
	datasetsPrompt := promptui.Prompt{
		Label:   "Directory containing the CSV datasets",
		Default: cfg.Datasets.Dir,
	}
	datasetsDir, err := datasetsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("datasets dir: %w", err)
	}
	cfg.Datasets.Dir = strings.TrimSpace(datasetsDir)

	// 5. HTTP port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(".asha.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration written to .asha.yml")
	if key := APIKeyEnvVar(cfg.Provider); key != "" {
		fmt.Printf("Remember to set %s before starting the server.\n", key)
	}
	if key := SearchAPIKeyEnvVar(cfg.SearchProvider); key != "" {
		fmt.Printf("Web search requires %s.\n", key)
	}

	return cfg, nil
}
