package client

import (
	"net/http"
)

// Sender sends a request and returns its response.
type Sender func(*http.Request) (*http.Response, error)

// RequestHook runs before the transport. It must not mutate req; hooks that
// change it return a clone.
type RequestHook func(req *http.Request) (*http.Request, error)

// ResponseHook runs after the transport with whatever it returned. resend
// re-enters the full pipeline, request hooks included.
type ResponseHook func(req *http.Request, resp *http.Response, err error, resend Sender) (*http.Response, error)

// Pipeline is an http.RoundTripper composed of hooks around a base transport.
type Pipeline struct {
	base   http.RoundTripper
	before []RequestHook
	after  []ResponseHook
}

type PipelineOption func(*Pipeline)

func WithRequestHooks(hooks ...RequestHook) PipelineOption {
	return func(p *Pipeline) { p.before = append(p.before, hooks...) }
}

func WithResponseHooks(hooks ...ResponseHook) PipelineOption {
	return func(p *Pipeline) { p.after = append(p.after, hooks...) }
}

// NewPipeline wraps base; a nil base means http.DefaultTransport.
func NewPipeline(base http.RoundTripper, opts ...PipelineOption) *Pipeline {
	if base == nil {
		base = http.DefaultTransport
	}
	p := &Pipeline{base: base}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	return p.send(req)
}

func (p *Pipeline) send(req *http.Request) (*http.Response, error) {
	var err error
	for _, hook := range p.before {
		req, err = hook(req)
		if err != nil {
			return nil, err
		}
	}

	resp, err := p.base.RoundTrip(req)

	for _, hook := range p.after {
		resp, err = hook(req, resp, err, p.send)
	}
	return resp, err
}
