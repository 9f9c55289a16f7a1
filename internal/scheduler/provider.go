package scheduler

import (
	"fmt"
	"strings"

	"hanru/internal/services"
	"hanru/internal/services/backend"
)

// Provider selects which translation route the worker uses. It is a closed
// set: the request-building switch below is exhaustive, so an unknown value
// fails loudly before any network call instead of silently no-oping.
type Provider string

const (
	ProviderGoogle      Provider = "google"
	ProviderLocalBridge Provider = "local_bridge"
	ProviderOpenRouter  Provider = "openrouter"
)

// TargetService narrows the local_bridge provider to a concrete web service.
type TargetService string

const (
	TargetNone           TargetService = ""
	TargetPerplexity     TargetService = "perplexity"
	TargetGoogleAIStudio TargetService = "google_ai_studio"
)

// ParseProvider converts a string into a known Provider.
func ParseProvider(value string) (Provider, bool) {
	switch Provider(strings.ToLower(strings.TrimSpace(value))) {
	case ProviderGoogle:
		return ProviderGoogle, true
	case ProviderLocalBridge:
		return ProviderLocalBridge, true
	case ProviderOpenRouter:
		return ProviderOpenRouter, true
	default:
		return "", false
	}
}

// ParseTargetService converts a string into a known TargetService.
func ParseTargetService(value string) (TargetService, bool) {
	switch TargetService(strings.ToLower(strings.TrimSpace(value))) {
	case TargetNone:
		return TargetNone, true
	case TargetPerplexity:
		return TargetPerplexity, true
	case TargetGoogleAIStudio:
		return TargetGoogleAIStudio, true
	default:
		return "", false
	}
}

// apply stamps provider routing onto a translate request.
func (p Provider) apply(req *backend.TranslateJobRequest, target TargetService, model string) error {
	switch p {
	case ProviderGoogle:
		req.Provider = string(ProviderGoogle)
		req.Model = model
		return nil
	case ProviderLocalBridge:
		if target == TargetNone {
			return services.Wrap(services.ErrConfiguration, "scheduler", "provider", "local_bridge requires a target service", nil)
		}
		req.Provider = string(ProviderLocalBridge)
		req.TargetService = string(target)
		return nil
	case ProviderOpenRouter:
		if model == "" {
			return services.Wrap(services.ErrConfiguration, "scheduler", "provider", "openrouter requires a model", nil)
		}
		req.Provider = string(ProviderOpenRouter)
		req.Model = model
		return nil
	default:
		return services.Wrap(services.ErrConfiguration, "scheduler", "provider", fmt.Sprintf("unknown provider %q", string(p)), nil)
	}
}
