package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GatewayClient talks to the self-hosted WhatsApp gateway that owns the
// provisioned device. One-way: the pipeline only ever pushes text out.
type GatewayClient struct {
	BaseURL string
	Token   string
}

// SendText delivers one text message to a phone JID or group JID.
func (g GatewayClient) SendText(ctx context.Context, target string, text string) error {
	if g.BaseURL == "" {
		return fmt.Errorf("gateway base url not configured")
	}

	reqBody := map[string]any{
		"target":  target,
		"message": text,
	}
	b, _ := json.Marshal(reqBody)

	url := strings.TrimRight(g.BaseURL, "/") + "/send/message"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
