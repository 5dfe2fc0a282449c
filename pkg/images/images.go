// Package images fetches random pictures from TheCatAPI.
package images

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"healthchat/pkg/config"
	"healthchat/pkg/remote"
)

const serviceName = "thecatapi"

// Image is one search result.
type Image struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Client talks to TheCatAPI. No key is required.
type Client struct {
	http *remote.Client
}

// New builds a client from the images section of cfg.
func New(cfg config.Config) *Client {
	return &Client{
		http: remote.NewClient(serviceName, cfg.Images.APIURL, time.Duration(cfg.Images.TimeoutSeconds)*time.Second),
	}
}

// Random returns the first image of a fresh search.
func (c *Client) Random(ctx context.Context) (Image, error) {
	var results []Image
	if err := c.http.GetJSON(ctx, "/images/search", nil, &results); err != nil {
		slog.Warn("images_random_error", "error", err)
		return Image{}, err
	}
	if len(results) == 0 || strings.TrimSpace(results[0].URL) == "" {
		slog.Warn("images_random_empty", "results", len(results))
		return Image{}, &remote.EmptyResultError{Service: serviceName}
	}

	slog.Info("images_random_done", "id", results[0].ID)
	return results[0], nil
}
