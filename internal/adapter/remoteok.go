package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amishk599/jobcache/internal/model"
)

// remoteOKJob represents one posting in the RemoteOK feed.
type remoteOKJob struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Date        string `json:"date"`
	Remote      *bool  `json:"remote"`
}

// RemoteOKAdapter fetches jobs from the RemoteOK API. The response is a bare
// array whose first element is a legal/metadata notice.
type RemoteOKAdapter struct {
	url    string
	client *http.Client
}

// NewRemoteOKAdapter creates an adapter for the RemoteOK endpoint at url.
func NewRemoteOKAdapter(url string, client *http.Client) *RemoteOKAdapter {
	return &RemoteOKAdapter{url: url, client: client}
}

func (a *RemoteOKAdapter) ID() model.ProviderID { return model.ProviderRemoteOK }

// FetchJobs retrieves the RemoteOK feed and maps it into records.
func (a *RemoteOKAdapter) FetchJobs(ctx context.Context) ([]model.Record, error) {
	var raw []json.RawMessage
	if err := getJSON(ctx, a.client, a.ID(), a.url, &raw); err != nil {
		return nil, err
	}
	if len(raw) <= 1 {
		return nil, nil
	}

	records := make([]model.Record, 0, len(raw)-1)
	for i, msg := range raw[1:] {
		var j remoteOKJob
		if err := json.Unmarshal(msg, &j); err != nil {
			return nil, &model.ProviderFetchError{Provider: a.ID(), Err: fmt.Errorf("decode job %d: %w", i+1, err)}
		}
		if j.Position == "" {
			continue
		}
		remote := true
		if j.Remote != nil {
			remote = *j.Remote
		}
		records = append(records, model.Record{
			Title:       j.Position,
			Description: htmlToText(j.Description),
			Company:     model.StringOrNil(j.Company),
			Location:    model.StringOrNil(j.Location),
			URL:         model.StringOrNil(j.URL),
			DatePosted:  model.StringOrNil(j.Date),
			IsRemote:    remote,
			Source:      model.ProviderRemoteOK,
		})
	}
	return records, nil
}
