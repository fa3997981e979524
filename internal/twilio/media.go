package twilio

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	twclient "github.com/twilio/twilio-go/client"

	"github.com/wearly/tryonbot/internal/config"
)

const apiBase = "https://api.twilio.com"

// MediaClient resolves and downloads inbound message media using account
// credentials. Twilio media content URLs require basic auth, so plain GETs
// are not enough. The SDK client carries no context; the configured HTTP
// timeout bounds every call.
type MediaClient struct {
	accountSID string
	base       string
	client     *twclient.Client
}

func NewMediaClient(accountSID, authToken string) *MediaClient {
	c := &twclient.Client{
		Credentials: twclient.NewCredentials(accountSID, authToken),
		HTTPClient:  &http.Client{Timeout: config.FetchTimeout},
	}
	c.SetAccountSid(accountSID)
	return &MediaClient{accountSID: accountSID, base: apiBase, client: c}
}

// ResolveURL looks up the message's media list and returns the content URL
// of its first item.
func (m *MediaClient) ResolveURL(messageSID string) (string, error) {
	listURL := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages/%s/Media.json",
		m.base, m.accountSID, messageSID)

	// SendRequest surfaces non-2xx statuses as errors itself.
	resp, err := m.client.SendRequest("GET", listURL, nil, nil)
	if err != nil {
		return "", fmt.Errorf("list media: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read media list: %w", err)
	}

	var list struct {
		MediaList []struct {
			URI string `json:"uri"`
		} `json:"media_list"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("parse media list: %w", err)
	}
	if len(list.MediaList) == 0 {
		return "", fmt.Errorf("message %s has no media", messageSID)
	}

	// The list URI ends in .json; the content lives at the bare resource.
	uri := strings.TrimSuffix(list.MediaList[0].URI, ".json")
	return m.base + uri, nil
}

// Download fetches url with account credentials and returns the raw bytes,
// capped at config.MaxImageBytes.
func (m *MediaClient) Download(url string) ([]byte, error) {
	resp, err := m.client.SendRequest("GET", url, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, config.MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read media body: %w", err)
	}
	if len(data) > config.MaxImageBytes {
		return nil, fmt.Errorf("media larger than %d bytes", config.MaxImageBytes)
	}
	return data, nil
}
