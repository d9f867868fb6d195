package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/signupguard/signupguard/internal/logging"
)

type Summary struct {
	Total       int            `json:"total"`
	OK          int            `json:"ok"`
	Errors      int            `json:"errors"`
	RateLimited int            `json:"rate_limited"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Commands    []CountItem    `json:"commands"`
	Events      []CountItem    `json:"events"`
	ErrorKinds  []CountItem    `json:"error_kinds"`
	TopReplies  []CountItem    `json:"top_error_replies"`
	Latency     LatencySummary `json:"latency"`
}

type CountItem struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type LatencySummary struct {
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type Reader struct {
	Since time.Time
}

// Read loads a command log written by logging.CommandLogger.
func (r *Reader) Read(path string) ([]logging.CommandRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []logging.CommandRecord
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec logging.CommandRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !r.Since.IsZero() && rec.Timestamp.Before(r.Since) {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func Summarize(records []logging.CommandRecord) Summary {
	var summary Summary
	if len(records) == 0 {
		return summary
	}

	summary.Start = records[0].Timestamp
	summary.End = records[0].Timestamp

	commandCounts := map[string]int{}
	eventCounts := map[string]int{}
	kindCounts := map[string]int{}
	replyCounts := map[string]int{}
	latencies := make([]int64, 0, len(records))

	for _, rec := range records {
		summary.Total++
		if rec.Timestamp.Before(summary.Start) {
			summary.Start = rec.Timestamp
		}
		if rec.Timestamp.After(summary.End) {
			summary.End = rec.Timestamp
		}

		switch rec.Result {
		case logging.ResultOK:
			summary.OK++
		case logging.ResultError:
			summary.Errors++
			if rec.ErrorKind != "" {
				kindCounts[rec.ErrorKind]++
			}
			if rec.Reply != "" {
				replyCounts[rec.Reply]++
			}
		case logging.ResultRateLimited:
			summary.RateLimited++
		}

		commandCounts[rec.Command]++
		if rec.Event != "" {
			eventCounts[rec.Event]++
		}
		latencies = append(latencies, rec.DurationMS)
	}

	summary.Commands = topCounts(commandCounts, len(commandCounts))
	summary.Events = topCounts(eventCounts, len(eventCounts))
	summary.ErrorKinds = topCounts(kindCounts, len(kindCounts))
	summary.TopReplies = topCounts(replyCounts, 5)
	summary.Latency = latencySummary(latencies)

	return summary
}

func topCounts(counts map[string]int, n int) []CountItem {
	items := make([]CountItem, 0, len(counts))
	for key, count := range counts {
		items = append(items, CountItem{Key: key, Count: count})
	}
	if len(items) == 0 {
		return nil
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Key < items[j].Key
		}
		return items[i].Count > items[j].Count
	})

	if len(items) > n {
		items = items[:n]
	}
	return items
}

func latencySummary(values []int64) LatencySummary {
	if len(values) == 0 {
		return LatencySummary{}
	}
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return LatencySummary{
		P50: percentile(sorted, 0.50),
		P95: percentile(sorted, 0.95),
		P99: percentile(sorted, 0.99),
	}
}

func percentile(values []int64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	idx := int(float64(len(values)-1) * p)
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return float64(values[idx])
}

func RenderText(summary Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d\n", summary.Total)
	fmt.Fprintf(&b, "OK: %d\n", summary.OK)
	fmt.Fprintf(&b, "Errors: %d\n", summary.Errors)
	fmt.Fprintf(&b, "Rate limited: %d\n", summary.RateLimited)
	fmt.Fprintf(&b, "Latency p50/p95/p99 (ms): %.0f/%.0f/%.0f\n", summary.Latency.P50, summary.Latency.P95, summary.Latency.P99)

	writeCounts(&b, "Commands", summary.Commands)
	writeCounts(&b, "Events", summary.Events)
	writeCounts(&b, "Error kinds", summary.ErrorKinds)
	writeCounts(&b, "Top error replies", summary.TopReplies)

	return b.String()
}

func RenderMarkdown(summary Summary) string {
	var b strings.Builder
	b.WriteString("# Signupguard Command Report\n\n")
	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "- Total: %d\n", summary.Total)
	fmt.Fprintf(&b, "- OK: %d\n", summary.OK)
	fmt.Fprintf(&b, "- Errors: %d\n", summary.Errors)
	fmt.Fprintf(&b, "- Rate limited: %d\n", summary.RateLimited)
	fmt.Fprintf(&b, "- Latency p50/p95/p99 (ms): %.0f/%.0f/%.0f\n\n", summary.Latency.P50, summary.Latency.P95, summary.Latency.P99)

	writeCountsMarkdown(&b, "Commands", summary.Commands)
	writeCountsMarkdown(&b, "Events", summary.Events)
	writeCountsMarkdown(&b, "Error kinds", summary.ErrorKinds)
	writeCountsMarkdown(&b, "Top error replies", summary.TopReplies)

	return b.String()
}

func RenderJSON(summary Summary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}

func writeCounts(b *strings.Builder, title string, items []CountItem) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: none\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s: %d\n", item.Key, item.Count)
	}
}

func writeCountsMarkdown(b *strings.Builder, title string, items []CountItem) {
	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString("\n\n")
	if len(items) == 0 {
		b.WriteString("- none\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s: %d\n", item.Key, item.Count)
	}
	b.WriteString("\n")
}

// WriteOutput writes to w when path is empty, otherwise to the file at path.
func WriteOutput(w io.Writer, path string, content []byte) error {
	if path == "" {
		_, err := io.Copy(w, bytes.NewReader(content))
		return err
	}
	return os.WriteFile(path, content, 0o600)
}
