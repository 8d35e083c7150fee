package adapter

import (
	"context"
	"net/http"

	"github.com/amishk599/jobcache/internal/model"
)

type jobicyJob struct {
	JobTitle       string `json:"jobTitle"`
	CompanyName    string `json:"companyName"`
	JobDescription string `json:"jobDescription"`
	JobGeo         string `json:"jobGeo"`
	PubDate        string `json:"pubDate"`
	URL            string `json:"url"`
}

type jobicyResponse struct {
	Jobs []jobicyJob `json:"jobs"`
}

// JobicyAdapter fetches jobs from the Jobicy remote-jobs API. Jobicy is a
// remote-only board.
type JobicyAdapter struct {
	url    string
	client *http.Client
}

// NewJobicyAdapter creates an adapter for the Jobicy endpoint at url.
func NewJobicyAdapter(url string, client *http.Client) *JobicyAdapter {
	return &JobicyAdapter{url: url, client: client}
}

func (a *JobicyAdapter) ID() model.ProviderID { return model.ProviderJobicy }

// FetchJobs retrieves the Jobicy listing and maps it into records.
func (a *JobicyAdapter) FetchJobs(ctx context.Context) ([]model.Record, error) {
	var resp jobicyResponse
	if err := getJSON(ctx, a.client, a.ID(), a.url, &resp); err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		if j.JobTitle == "" {
			continue
		}
		records = append(records, model.Record{
			Title:       j.JobTitle,
			Description: htmlToText(j.JobDescription),
			Company:     model.StringOrNil(j.CompanyName),
			Location:    model.StringOrNil(j.JobGeo),
			URL:         model.StringOrNil(j.URL),
			DatePosted:  model.StringOrNil(j.PubDate),
			IsRemote:    true,
			Source:      model.ProviderJobicy,
		})
	}
	return records, nil
}
