package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PushPayload is what the device shows plus the data the app routes on
type PushPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// PushResult summarizes one batch send. InvalidTokens are tokens the
// provider rejected as unregistered; the caller deactivates them.
type PushResult struct {
	SuccessCount  int
	FailureCount  int
	InvalidTokens []string
}

// PushTransport delivers a payload to a set of device tokens
type PushTransport interface {
	Send(ctx context.Context, tokens []string, payload PushPayload) (*PushResult, error)
}

const expoPushURL = "https://exp.host/--/api/v2/push/send"

// ExpoTransport sends through the Expo push HTTP API
type ExpoTransport struct {
	client *http.Client
	url    string
}

func NewExpoTransport(url string) *ExpoTransport {
	if url == "" {
		url = expoPushURL
	}
	return &ExpoTransport{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

type expoTicket struct {
	Status  string `json:"status"` // "ok" | "error"
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"` // e.g. "DeviceNotRegistered"
	} `json:"details,omitempty"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

func (t *ExpoTransport) Send(ctx context.Context, tokens []string, payload PushPayload) (*PushResult, error) {
	if len(tokens) == 0 {
		return &PushResult{}, nil
	}

	messages := make([]expoMessage, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, expoMessage{
			To:    token,
			Title: payload.Title,
			Body:  payload.Body,
			Data:  payload.Data,
			Sound: "default",
		})
	}

	body, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("expo push: unexpected status %d", resp.StatusCode)
	}

	var parsed expoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	result := &PushResult{}
	for i, ticket := range parsed.Data {
		if ticket.Status == "ok" {
			result.SuccessCount++
			continue
		}
		result.FailureCount++
		if ticket.Details.Error == "DeviceNotRegistered" && i < len(tokens) {
			result.InvalidTokens = append(result.InvalidTokens, tokens[i])
		}
	}
	return result, nil
}
