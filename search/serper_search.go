package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const serperBaseURL = "https://google.serper.dev/search"

type SerperSearchEngine struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

type serperResponse struct {
	Organic []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
	} `json:"organic"`
	KnowledgeGraph struct {
		Description string `json:"description"`
	} `json:"knowledgeGraph"`
}

func NewSerperSearchEngine(apiKey string) *SerperSearchEngine {
	return &SerperSearchEngine{
		client:  &http.Client{Timeout: 15 * time.Second},
		apiKey:  apiKey,
		baseURL: serperBaseURL,
	}
}

func (s *SerperSearchEngine) Search(ctx context.Context, req *Request) (*Response, error) {
	num := req.Num
	if num == 0 {
		num = 10
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("apiKey", s.apiKey)
	params.Set("num", strconv.Itoa(num))
	if req.Page > 1 {
		params.Set("page", strconv.Itoa(req.Page))
	}

	apiURL := s.baseURL + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var searchResp serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	out := &Response{
		Query:          req.Query,
		KnowledgeGraph: searchResp.KnowledgeGraph.Description,
	}
	for _, item := range searchResp.Organic {
		out.Results = append(out.Results, Result{
			Title:    item.Title,
			Link:     item.Link,
			Snippet:  item.Snippet,
			Position: item.Position,
		})
	}

	return out, nil
}
