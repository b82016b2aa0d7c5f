package runpod

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/arenainfra/podctl/config"
	"github.com/arenainfra/podctl/domain"
	"github.com/arenainfra/podctl/errs"
	"github.com/arenainfra/podctl/pkg/logger"
)

const (
	podsQuery = `query Pods {
  myself {
    pods {
      id
      name
      desiredStatus
      costPerHr
      lastStatusChange
      imageName
      ports
      machine { gpuDisplayName }
      runtime {
        uptimeInSeconds
        ports { ip isIpPublic privatePort publicPort type }
      }
    }
  }
}`
	stopPodMutation = `mutation StopPod($input: PodStopInput!) {
  podStop(input: $input) { id desiredStatus }
}`
	terminatePodMutation = `mutation TerminatePod($input: PodTerminateInput!) {
  podTerminate(input: $input)
}`

	maxErrorBody = 512
)

func NewClient(cfg config.RunpodConfig) (*Client, error) {
	if cfg.APIKey.Value() == "" {
		return nil, errs.ErrMissingCredential
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = config.DefaultEndpoint
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = config.DefaultRequestTimeout
	}
	return &Client{
		Client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
	}, nil
}

// Client talks to the RunPod GraphQL API. It implements domain.PodProvider.
type Client struct {
	*http.Client

	endpoint string
	apiKey   config.SecretValue
}

var _ domain.PodProvider = (*Client)(nil)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type podsData struct {
	Myself *struct {
		Pods []*domain.Pod `json:"pods"`
	} `json:"myself"`
}

type podStopData struct {
	PodStop *struct {
		ID            string `json:"id"`
		DesiredStatus string `json:"desiredStatus"`
	} `json:"podStop"`
}

type podTerminateData struct {
	PodTerminate json.RawMessage `json:"podTerminate"`
}

func (c *Client) FetchPods(ctx context.Context) ([]*domain.Pod, error) {
	var data podsData
	if err := do(ctx, c, "fetch pods", graphQLRequest{Query: podsQuery}, &data); err != nil {
		return nil, err
	}
	if data.Myself == nil {
		return nil, errs.NewProviderError("fetch pods", 0, "response has no account data", nil)
	}
	pods := make([]*domain.Pod, 0, len(data.Myself.Pods))
	for _, pod := range data.Myself.Pods {
		if pod == nil {
			continue
		}
		pods = append(pods, pod)
	}
	logger.Logger(ctx).Debug().Msgf("fetched %d pods from %s", len(pods), c.endpoint)
	return pods, nil
}

func (c *Client) StopPod(ctx context.Context, podID string) error {
	req := graphQLRequest{
		Query:     stopPodMutation,
		Variables: map[string]any{"input": map[string]string{"podId": podID}},
	}
	var data podStopData
	return do(ctx, c, "stop pod "+podID, req, &data)
}

func (c *Client) TerminatePod(ctx context.Context, podID string) error {
	req := graphQLRequest{
		Query:     terminatePodMutation,
		Variables: map[string]any{"input": map[string]string{"podId": podID}},
	}
	var data podTerminateData
	return do(ctx, c, "terminate pod "+podID, req, &data)
}

func do[T any](ctx context.Context, c *Client, op string, payload graphQLRequest, out *T) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return errs.NewProviderError(op, 0, "encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return errs.NewProviderError(op, 0, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey.Value())
	resp, err := c.Client.Do(req)
	if err != nil {
		return errs.NewProviderError(op, 0, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return errs.NewProviderError(op, resp.StatusCode, msg, nil)
	}

	var gqlResp graphQLResponse[T]
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&gqlResp); err != nil {
		return errs.NewProviderError(op, resp.StatusCode, "malformed response", err)
	}
	if len(gqlResp.Errors) > 0 {
		msgs := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			msgs = append(msgs, e.Message)
		}
		return errs.NewProviderError(op, 0, strings.Join(msgs, "; "), nil)
	}
	if gqlResp.Data == nil {
		return errs.NewProviderError(op, 0, "response has no data", nil)
	}
	*out = *gqlResp.Data
	return nil
}
