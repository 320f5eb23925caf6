package search

import "context"

type Result struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position,omitempty"`
}

type Response struct {
	Query          string   `json:"query"`
	Results        []Result `json:"results"`
	KnowledgeGraph string   `json:"knowledge_graph,omitempty"`
}

type Request struct {
	Query string `json:"query"`
	Num   int    `json:"num,omitempty"`
	Page  int    `json:"page,omitempty"`
}

type Engine interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}
