package mock

import "github.com/fwojciec/logofetch"

var _ logofetch.CandidateCollector = (*CandidateCollector)(nil)

// CandidateCollector is a mock implementation of logofetch.CandidateCollector.
type CandidateCollector struct {
	CollectFn func(html, baseURL string) ([]*logofetch.Candidate, error)
}

func (c *CandidateCollector) Collect(html, baseURL string) ([]*logofetch.Candidate, error) {
	return c.CollectFn(html, baseURL)
}
