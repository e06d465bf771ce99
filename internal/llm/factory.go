package llm

import (
	"fmt"

	"medbill/internal/config"
	"medbill/internal/port"
)

// ProviderFactory creates a ChatClient from the LLM config.
type ProviderFactory func(cfg *config.LLMConfig) (port.ChatClient, error)

// providers is populated via RegisterProvider when the application is wired.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a chat client factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewChatClient creates a ChatClient using the factory registered for cfg.Provider.
func NewChatClient(cfg *config.LLMConfig) (port.ChatClient, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
