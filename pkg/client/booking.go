package client

import (
	"context"
	"time"

	"hotelbooking/pkg/model"
)

const (
	BookingsPath   = "/api/book"
	LogSessionPath = "/api/log-session"
)

// BookingClient talks to the booking intake API.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL, 10*time.Second),
	}
}

func (c *BookingClient) HTTP() *HttpClient {
	return c.httpClient
}

func (c *BookingClient) Submit(ctx context.Context, req *model.BookingRequest) (*Response, error) {
	return c.httpClient.POST(ctx, BookingsPath, req)
}

func (c *BookingClient) List(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, BookingsPath)
}

func (c *BookingClient) LogSession(ctx context.Context, req *model.VisitorSessionRequest) (*Response, error) {
	return c.httpClient.POST(ctx, LogSessionPath, req)
}
