// Package client is a typed HTTP client for the employee API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Houeta/employee-api/internal/models"
)

// APIError is returned for any unexpected non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("employee api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("employee api: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the employee routes mounted at baseURL, e.g. http://host:8080/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Create posts a new employee and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, employee models.Employee) (models.Employee, error) {
	var created models.Employee
	if _, err := c.do(ctx, http.MethodPost, "/employee", employee, http.StatusCreated, &created); err != nil {
		return models.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// List returns every employee.
func (c *Client) List(ctx context.Context) ([]models.Employee, error) {
	list := []models.Employee{}
	if _, err := c.do(ctx, http.MethodGet, "/employee", nil, http.StatusOK, &list); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return list, nil
}

// Get returns the employee with the given id, ok is false when the server answers 404.
func (c *Client) Get(ctx context.Context, identifier int64) (models.Employee, bool, error) {
	var employee models.Employee
	found, err := c.do(ctx, http.MethodGet, employeePath(identifier), nil, http.StatusOK, &employee)
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("failed to get employee: %w", err)
	}

	return employee, found, nil
}

// Update replaces the name and email of an existing employee, ok is false when it does not exist.
func (c *Client) Update(ctx context.Context, identifier int64, details models.Employee) (models.Employee, bool, error) {
	var employee models.Employee
	found, err := c.do(ctx, http.MethodPut, employeePath(identifier), details, http.StatusOK, &employee)
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("failed to update employee: %w", err)
	}

	return employee, found, nil
}

// Delete removes the employee. Missing employees are not an error.
func (c *Client) Delete(ctx context.Context, identifier int64) error {
	if _, err := c.do(ctx, http.MethodDelete, employeePath(identifier), nil, http.StatusOK, nil); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	return nil
}

func employeePath(identifier int64) string {
	return "/employee/" + strconv.FormatInt(identifier, 10)
}

// do performs the request and decodes the body into out on the expected status.
// It reports false without error on 404.
func (c *Client) do(ctx context.Context, method, path string, body any, expected int, out any) (bool, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == expected:
		if out == nil {
			return true, nil
		}
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("failed to decode response: %w", err)
		}
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, readAPIError(resp)
	}
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return apiErr
	}
	apiErr.Message = payload.Error

	return apiErr
}
