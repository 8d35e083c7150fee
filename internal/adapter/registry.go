package adapter

import (
	"fmt"
	"net/http"

	"github.com/amishk599/jobcache/internal/config"
	"github.com/amishk599/jobcache/internal/model"
)

// New creates the adapter for a provider name pointed at url.
func New(id model.ProviderID, url string, client *http.Client) (model.Provider, error) {
	switch id {
	case model.ProviderRemotive:
		return NewRemotiveAdapter(url, client), nil
	case model.ProviderRemoteOK:
		return NewRemoteOKAdapter(url, client), nil
	case model.ProviderArbeitnow:
		return NewArbeitnowAdapter(url, client), nil
	case model.ProviderJobicy:
		return NewJobicyAdapter(url, client), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", id)
	}
}

// FromConfig builds the enabled providers in priority order, regardless of
// their order in the config file.
func FromConfig(cfg config.ProvidersConfig, client *http.Client) ([]model.Provider, error) {
	byName := make(map[model.ProviderID]config.ProviderSource)
	for _, s := range cfg.EnabledSources() {
		byName[model.ProviderID(s.Name)] = s
	}

	var providers []model.Provider
	for _, id := range model.Priority {
		src, ok := byName[id]
		if !ok {
			continue
		}
		p, err := New(id, src.URL, client)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}
