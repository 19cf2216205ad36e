package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storeops/ads-ingest/internal/utils"
)

// GetJSONWithRetry fetches url and decodes the body into dst, retrying
// transport errors and non-2xx responses with exponential backoff + jitter.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any) error {
	if url == "" {
		return errors.New("empty url")
	}
	b := utils.NewBackoff(100*time.Millisecond, 150*time.Millisecond, 2)
	return b.Do(func(int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(body))
		}
		return json.NewDecoder(resp.Body).Decode(dst)
	})
}
