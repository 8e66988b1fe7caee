// Command shadow_compare replays read-only requests against the Go API and the
// legacy Node service and reports where their payloads diverge.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

// volatile fields differ between two independent writes of the same data.
var volatile = map[string]bool{
	"sl_no":        true,
	"id":           true,
	"computed_at":  true,
	"submitted_at": true,
	"created_at":   true,
	"updated_at":   true,
	"createdAt":    true,
	"updatedAt":    true,
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		criterion   int
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080/api/v1", "Go API base URL including the prefix")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3000/api/v1", "Legacy API base URL including the prefix")
	flag.StringVar(&targetsPath, "targets", "", "JSON targets file; empty derives targets from the criteria registry")
	flag.IntVar(&criterion, "criterion", 0, "Restrict registry targets to one criterion")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	var (
		targets []target
		err     error
	)
	if targetsPath != "" {
		targets, err = loadTargets(targetsPath)
	} else {
		targets = registryTargets(criterion)
	}
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)
	for _, t := range targets {
		comp := compareTarget(client, goBase, legacyBase, t)
		switch {
		case comp.Error != nil && t.Critical:
			breaking++
		case comp.Error == nil && (!comp.StatusMatch || !comp.BodyMatch):
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

// registryTargets lists the retrieval route of every form code and the score route of
// every scored metric. Retrieval is critical; scores may drift while ladders are tuned.
func registryTargets(only int) []target {
	var out []target
	for _, form := range criteria.Forms() {
		if only > 0 && form.Criterion != only {
			continue
		}
		for _, code := range form.Codes() {
			out = append(out, target{
				Method:   http.MethodGet,
				Path:     fmt.Sprintf("/criteria%d/getResponsesByCriteriaCode/%s", form.Criterion, code),
				Critical: true,
			})
		}
	}
	for _, sc := range criteria.Scorers() {
		if only > 0 && sc.Code.Criterion() != only {
			continue
		}
		out = append(out, target{
			Method: http.MethodGet,
			Path:   fmt.Sprintf("/criteria%d/score%s", sc.Code.Criterion(), sc.Code.Digits()),
		})
	}
	return out
}

func compareTarget(client *http.Client, goBase, legacyBase string, tgt target) comparison {
	comp := comparison{Target: tgt}
	goStatus, goBody, goDur, err := fetch(client, goBase, tgt)
	if err != nil {
		comp.Error = fmt.Errorf("go request failed: %w", err)
		return comp
	}
	legacyStatus, legacyBody, legacyDur, err := fetch(client, legacyBase, tgt)
	if err != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", err)
		return comp
	}
	comp.GoStatus, comp.LegacyStatus = goStatus, legacyStatus
	comp.DurationGo, comp.DurationLegacy = goDur, legacyDur
	comp.StatusMatch = goStatus == legacyStatus
	comp.BodyMatch = payloadsEqual(goBody, legacyBody)
	return comp
}

func fetch(client *http.Client, base string, tgt target) (int, []byte, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// payloadsEqual compares the data members of both bodies, ignoring volatile fields
// and integer/float representation differences.
func payloadsEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}
	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	aj, bj = normalize(unwrap(aj)), normalize(unwrap(bj))
	return reflect.DeepEqual(aj, bj)
}

func unwrap(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		if data, exists := m["data"]; exists {
			return data
		}
	}
	return v
}

func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, inner := range val {
			if volatile[k] {
				delete(val, k)
				continue
			}
			val[k] = normalize(inner)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = normalize(inner)
		}
		return val
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
	}
	return v
}

func printReport(results []comparison) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Go %d (%s) | Legacy %d (%s) | body match: %t | critical: %t\n",
			res.GoStatus, res.DurationGo, res.LegacyStatus, res.DurationLegacy, res.BodyMatch, res.Target.Critical)
	}
}
