// Reader is a testing facility to read the output of a http reporter.

package reporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type HttpReader struct {
	baseURL string
	client  *http.Client
}

func NewHttpReader(baseURL string) *HttpReader {
	return &HttpReader{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

type runResponse struct {
	Processed bool   `json:"processed"`
	Error     string `json:"error"`
}

// TriggerRun posts to the run route and returns the decoded answer.
func (hr *HttpReader) TriggerRun() (bool, int, error) {
	resp, err := hr.client.Post(hr.baseURL+ROUTE_RUN, "application/json", nil)
	if err != nil {
		return false, 0, err
	}
	defer resp.Body.Close()

	var out runResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, resp.StatusCode, err
	}
	if out.Error != "" {
		return false, resp.StatusCode, errors.New(out.Error)
	}
	return out.Processed, resp.StatusCode, nil
}

func (hr *HttpReader) GetState() (string, error) {
	body, err := hr.get(ROUTE_STATUS)
	if err != nil {
		return "", err
	}

	var out struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.State, nil
}

func (hr *HttpReader) GetMetrics() (string, error) {
	body, err := hr.get(ROUTE_METRICS)
	return string(body), err
}

func (hr *HttpReader) get(route string) ([]byte, error) {
	resp, err := hr.client.Get(hr.baseURL + route)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", route, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
