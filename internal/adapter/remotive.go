package adapter

import (
	"context"
	"net/http"

	"github.com/amishk599/jobcache/internal/model"
)

// remotiveJob represents a single job in the Remotive API response.
type remotiveJob struct {
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	Description               string `json:"description"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	URL                       string `json:"url"`
	PublicationDate           string `json:"publication_date"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// RemotiveAdapter fetches jobs from the Remotive remote-jobs API. Remotive
// only lists remote roles, so every record is remote.
type RemotiveAdapter struct {
	url    string
	client *http.Client
}

// NewRemotiveAdapter creates an adapter for the Remotive endpoint at url.
func NewRemotiveAdapter(url string, client *http.Client) *RemotiveAdapter {
	return &RemotiveAdapter{url: url, client: client}
}

func (a *RemotiveAdapter) ID() model.ProviderID { return model.ProviderRemotive }

// FetchJobs retrieves the Remotive listing and maps it into records.
func (a *RemotiveAdapter) FetchJobs(ctx context.Context) ([]model.Record, error) {
	var resp remotiveResponse
	if err := getJSON(ctx, a.client, a.ID(), a.url, &resp); err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		if j.Title == "" {
			continue
		}
		records = append(records, model.Record{
			Title:       j.Title,
			Description: htmlToText(j.Description),
			Company:     model.StringOrNil(j.CompanyName),
			Location:    model.StringOrNil(j.CandidateRequiredLocation),
			URL:         model.StringOrNil(j.URL),
			DatePosted:  model.StringOrNil(j.PublicationDate),
			IsRemote:    true,
			Source:      model.ProviderRemotive,
		})
	}
	return records, nil
}
