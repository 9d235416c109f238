package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func dataField(raw []byte) map[string]interface{} {
	var env struct {
		Data map[string]interface{} `json:"data"`
	}
	_ = json.Unmarshal(raw, &env)
	return env.Data
}

func main() {
	color.Cyan("🚀 Starting Drive Assistant API Smoke Test\n")

	email := fmt.Sprintf("smoke-%s@example.com", uuid.New().String()[:8])
	password := "smoke-test-123"

	color.Yellow("\n[AUTH] 1. Register")
	resp, body, err := sendRequest("POST", "/auth/register", "", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": "Smoke Tester",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[AUTH] 2. Login")
	resp, body, err = sendRequest("POST", "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	token, _ := dataField(body)["token"].(string)
	if token == "" {
		color.Red("No token in login response")
		prettyPrint(body)
		os.Exit(1)
	}

	color.Yellow("\n[ASSISTANT] 3. Create Session")
	resp, body, err = sendRequest("POST", "/assistant/v1/session", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)
	sessionId, _ := dataField(body)["id"].(string)

	color.Yellow("\n[ASSISTANT] 4. Send Chat (search)")
	resp, body, err = sendRequest("POST", "/assistant/v1/chat", token, map[string]string{
		"chat_session_id": sessionId,
		"message":         "find the project charter",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[ASSISTANT] 5. Chat History")
	resp, body, err = sendRequest("GET", "/assistant/v1/session/"+sessionId+"/history", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[FILES] 6. Recent Files")
	resp, body, err = sendRequest("GET", "/files/v1/recent", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Yellow("\n[NOTIFICATIONS] 7. Unread Count")
	resp, body, err = sendRequest("GET", "/notifications/unread-count", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	color.Cyan("\n✅ Smoke test finished")
}
