// Package fetch downloads refreshed data files (gun catalog, skin index)
// from community-maintained URLs.
package fetch

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hashicorp/go-retryablehttp"
)

// Download fetches url into path, replacing any existing file. Retries
// transient failures before giving up.
func Download(url, path string) error {
	// Create a retryablehttp client
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 5

	resp, err := retryClient.Get(url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}

	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	return nil
}
