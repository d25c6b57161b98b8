package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Small helper for exercising the webhook endpoint without TikFinity.
func main() {
	server := flag.String("server", "http://localhost:3001", "server base URL")
	username := flag.String("username", "TestUser", "viewer username (value1)")
	text := flag.String("text", "Rosa", "gift name (value2)")
	sku := flag.String("sku", "", "gift sku (value3), empty to omit")
	secret := flag.String("secret", os.Getenv("WEBHOOK_SECRET"), "shared webhook secret")
	flag.Parse()

	payload := map[string]interface{}{
		"value1": *username,
		"value2": *text,
	}
	if *sku != "" {
		payload["value3"] = *sku
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode payload: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, *server+"/webhook/tikfinity", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if *secret != "" {
		req.Header.Set("X-Tikfinity-Token", *secret)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s\n%s\n", resp.Status, respBody)

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
