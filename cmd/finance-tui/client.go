package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type transaction struct {
	ID       uint    `json:"id"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Date     *string `json:"date"`
	Month    *string `json:"month"`
}

// apiClient talks to the finance server's JSON API.
type apiClient struct {
	baseURL string
	http    *http.Client
	token   string
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var failure struct {
			Msg string `json:"msg"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Msg == "" {
			return fmt.Errorf("server returned %d", resp.StatusCode)
		}
		return fmt.Errorf("%s", failure.Msg)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) login(username, password string) error {
	var result struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"username": username, "password": password}
	if err := c.do(http.MethodPost, "/auth/login", payload, &result); err != nil {
		return err
	}
	if result.Token == "" {
		return fmt.Errorf("login response carried no token")
	}
	c.token = result.Token
	return nil
}

func (c *apiClient) history() ([]transaction, error) {
	var result struct {
		Transactions []transaction `json:"transactions"`
	}
	if err := c.do(http.MethodGet, "/finance/history", nil, &result); err != nil {
		return nil, err
	}
	return result.Transactions, nil
}

func (c *apiClient) add(amount float64, txType, category string) error {
	payload := map[string]interface{}{
		"amount":   amount,
		"type":     txType,
		"category": category,
	}
	return c.do(http.MethodPost, "/finance/add", payload, nil)
}

func (c *apiClient) remove(id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/finance/%d", id), nil, nil)
}
