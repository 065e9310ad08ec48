// Command smoke exercises a running rubric API end to end: it walks the
// read endpoints, seeds a student and a scored record, and pulls the CSV
// export. Intended for a quick check after deploying or changing the
// persistence layer; exits non-zero when any critical step fails.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type step struct {
	Name     string
	Method   string
	Path     string
	Body     string
	Expect   int
	Critical bool
}

type result struct {
	Step     step
	Status   int
	Duration time.Duration
	Error    error
}

func main() {
	var (
		base    string
		prefix  string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "Rubric API base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API route prefix")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	studentID, err := seedStudent(client, base, prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed student failed: %v\n", err)
		os.Exit(1)
	}

	date := time.Now().Format("2006-01-02")
	steps := []step{
		{Name: "health", Method: http.MethodGet, Path: "/health", Expect: http.StatusOK, Critical: true},
		{Name: "settings", Method: http.MethodGet, Path: prefix + "/settings", Expect: http.StatusOK, Critical: true},
		{Name: "roster", Method: http.MethodGet, Path: prefix + "/students", Expect: http.StatusOK, Critical: true},
		{Name: "select", Method: http.MethodPut, Path: prefix + "/selection",
			Body:   fmt.Sprintf(`{"date":%q,"student_id":%q}`, date, studentID),
			Expect: http.StatusOK, Critical: true},
		{Name: "record", Method: http.MethodGet, Path: prefix + "/records/" + date + "/" + studentID, Expect: http.StatusOK, Critical: true},
		{Name: "summary", Method: http.MethodGet, Path: prefix + "/records/" + date + "/" + studentID + "/summary", Expect: http.StatusOK, Critical: true},
		{Name: "export-csv", Method: http.MethodGet, Path: prefix + "/exports/record.csv", Expect: http.StatusOK, Critical: true},
		{Name: "export-settings", Method: http.MethodGet, Path: prefix + "/exports/settings.json", Expect: http.StatusOK, Critical: false},
		{Name: "print", Method: http.MethodGet, Path: prefix + "/print", Expect: http.StatusOK, Critical: false},
		{Name: "metrics", Method: http.MethodGet, Path: "/metrics", Expect: http.StatusOK, Critical: false},
	}

	var results []result
	failures := 0
	for _, s := range steps {
		res := run(client, base, s)
		if res.Error != nil || res.Status != s.Expect {
			if s.Critical {
				failures++
			}
		}
		results = append(results, res)
	}

	printReport(results)
	if failures > 0 {
		fmt.Printf("Critical failures: %d\n", failures)
		os.Exit(1)
	}
	fmt.Println("All critical steps passed")
}

func seedStudent(client *http.Client, base, prefix string) (string, error) {
	url := strings.TrimRight(base, "/") + prefix + "/students"
	resp, err := client.Post(url, "application/json", bytes.NewBufferString(`{"name":"Smoke Test"}`))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Data.ID == "" {
		return "", fmt.Errorf("response carried no student id")
	}
	return body.Data.ID, nil
}

func run(client *http.Client, base string, s step) result {
	res := result{Step: s}
	url := strings.TrimRight(base, "/") + s.Path

	var payload io.Reader
	if s.Body != "" {
		payload = bytes.NewBufferString(s.Body)
	}
	req, err := http.NewRequest(s.Method, url, payload)
	if err != nil {
		res.Error = err
		return res
	}
	if s.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	res.Status = resp.StatusCode
	return res
}

func printReport(results []result) {
	fmt.Println("Rubric API Smoke Report")
	fmt.Println("=======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.Status != res.Step.Expect {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s %s\n", status, res.Step.Name, res.Step.Method, res.Step.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (want %d) in %s | Critical: %t\n", res.Status, res.Step.Expect, res.Duration, res.Step.Critical)
	}
}
