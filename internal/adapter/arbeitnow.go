package adapter

import (
	"context"
	"net/http"

	"github.com/amishk599/jobcache/internal/model"
)

// arbeitnowJob represents a single job in the Arbeitnow job-board API.
// The feed carries created_at as a unix timestamp which is not kept.
type arbeitnowJob struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Description string `json:"description"`
	Remote      *bool  `json:"remote"`
	Location    string `json:"location"`
	URL         string `json:"url"`
}

type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

// ArbeitnowAdapter fetches jobs from the Arbeitnow job-board API.
type ArbeitnowAdapter struct {
	url    string
	client *http.Client
}

// NewArbeitnowAdapter creates an adapter for the Arbeitnow endpoint at url.
func NewArbeitnowAdapter(url string, client *http.Client) *ArbeitnowAdapter {
	return &ArbeitnowAdapter{url: url, client: client}
}

func (a *ArbeitnowAdapter) ID() model.ProviderID { return model.ProviderArbeitnow }

// FetchJobs retrieves the first Arbeitnow page and maps it into records.
func (a *ArbeitnowAdapter) FetchJobs(ctx context.Context) ([]model.Record, error) {
	var resp arbeitnowResponse
	if err := getJSON(ctx, a.client, a.ID(), a.url, &resp); err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(resp.Data))
	for _, j := range resp.Data {
		if j.Title == "" {
			continue
		}
		remote := true
		if j.Remote != nil {
			remote = *j.Remote
		}
		records = append(records, model.Record{
			Title:       j.Title,
			Description: htmlToText(j.Description),
			Company:     model.StringOrNil(j.CompanyName),
			Location:    model.StringOrNil(j.Location),
			URL:         model.StringOrNil(j.URL),
			IsRemote:    remote,
			Source:      model.ProviderArbeitnow,
		})
	}
	return records, nil
}
