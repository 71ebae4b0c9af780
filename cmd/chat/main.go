package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// chat is a small terminal client for the concierge API. It keeps one
// session for the whole run so follow-up references resolve server-side.

type chatResponse struct {
	Success bool `json:"success"`
	Data    struct {
		SessionID string `json:"session_id"`
		Reply     string `json:"reply"`
	} `json:"data"`
	Error any `json:"error"`
}

func main() {
	serverURL := flag.String("server", envOr("CONCIERGE_URL", "http://localhost:8080"), "concierge API base URL")
	flag.Parse()

	client := &http.Client{Timeout: 120 * time.Second}

	fmt.Println("Boutique concierge. Type your request, or 'quit' to leave.")

	var sessionID string
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		reply, newSessionID, err := sendTurn(client, *serverURL, sessionID, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		sessionID = newSessionID
		fmt.Printf("concierge> %s\n", reply)
	}

	fmt.Println("Bye!")
}

func sendTurn(client *http.Client, serverURL, sessionID, message string) (string, string, error) {
	payload, err := json.Marshal(map[string]string{
		"session_id": sessionID,
		"message":    message,
	})
	if err != nil {
		return "", "", err
	}

	resp, err := client.Post(strings.TrimRight(serverURL, "/")+"/api/v1/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", "", fmt.Errorf("bad response from server: %w", err)
	}
	if !decoded.Success {
		return "", "", fmt.Errorf("server error: %v", decoded.Error)
	}

	return decoded.Data.Reply, decoded.Data.SessionID, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
