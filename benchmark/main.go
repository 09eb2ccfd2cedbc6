// Package main provides a performance benchmarking tool for the langtrends CLI.
// It generates synthetic language activity files of increasing size, then times
// the import and report commands against each file backend. Each command runs
// multiple times; the first successful run is treated as cold and the rest are
// averaged as warm. Results are written as CSV for analysis and documentation.
//
// Prerequisites:
// - langtrends binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated CSV files and databases
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Backend  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Backends []string
	Datasets map[string]int // name -> languages per quarter
}

// languageTypes mirrors the mix of a real activity export.
var languageTypes = []string{"programming", "programming", "programming", "markup", "data"}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:  workDir,
		Timeout:  5 * time.Minute,
		Runs:     4,
		Backends: []string{"sqlite", "duckdb"},
		Datasets: map[string]int{
			"small":  50,
			"medium": 500,
			"large":  5000,
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the langtrends binary and work dir exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("langtrends"); err != nil {
		return fmt.Errorf("langtrends binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateDataset writes a CSV with every quarter from 2013 to 2024 and
// the given number of languages per quarter.
func generateDataset(path string, languages int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"year", "quarter", "language", "language_type", "num_pushers"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	rng := rand.New(rand.NewPCG(42, uint64(languages)))
	for year := 2013; year <= 2024; year++ {
		for quarter := 1; quarter <= 4; quarter++ {
			for i := range languages {
				record := []string{
					strconv.Itoa(year),
					strconv.Itoa(quarter),
					languageName(i),
					languageTypes[i%len(languageTypes)],
					strconv.Itoa(1 + rng.IntN(100000)),
				}
				if err := writer.Write(record); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// languageName keeps the default tracked languages in every dataset.
func languageName(i int) string {
	known := []string{"JavaScript", "Python", "Java", "C++", "PHP", "Ruby", "C"}
	if i < len(known) {
		return known[i]
	}
	return fmt.Sprintf("Lang%04d", i)
}

// runBenchmarks executes all benchmark tests across datasets and backends
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %d backends, %v timeout, %d runs\n",
		len(config.Datasets), len(config.Backends), config.Timeout, config.Runs)

	for _, dataset := range []string{"small", "medium", "large"} {
		languages, ok := config.Datasets[dataset]
		if !ok {
			continue
		}
		csvPath := filepath.Join(config.WorkDir, dataset+".csv")
		fmt.Printf("Generating %s dataset (%d languages per quarter)\n", dataset, languages)
		if err := generateDataset(csvPath, languages); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", dataset, err)
		}

		for _, backend := range config.Backends {
			dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("%s.%s", dataset, backend))
			env := []string{
				"LANGTRENDS_BACKEND=" + backend,
				"LANGTRENDS_DB_CONNECT=" + dbPath,
				"LANGTRENDS_OPEN=false",
			}

			results = append(results, runBenchmarkSuite(config, dataset, backend, "import", env, "import", csvPath))
			chartPath := filepath.Join(config.WorkDir, fmt.Sprintf("%s-%s.png", dataset, backend))
			results = append(results, runBenchmarkSuite(config, dataset, backend, "report", env, "report", "--chart", chartPath))

			_ = os.Remove(dbPath)
		}
	}

	return results, nil
}

// runBenchmarkSuite runs a command config.Runs times and summarizes the timings
func runBenchmarkSuite(config BenchmarkConfig, dataset, backend, command string, env []string, args ...string) BenchmarkResult {
	fmt.Printf("Running %s on %s (%s)\n", command, dataset, backend)

	cold, warm := runBenchmark(config, env, args, config.Runs)

	coldTimeStr := "TIMEOUT"
	if cold > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", cold)
	}
	warmTimeStr := "TIMEOUT"
	if len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		warmTimeStr = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmTimeStr)

	return BenchmarkResult{
		Dataset:  dataset,
		Backend:  backend,
		Command:  command,
		ColdTime: coldTimeStr,
		WarmTime: warmTimeStr,
	}
}

// runBenchmark executes a langtrends command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, env, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("langtrends", args...)
		cmd.Dir = config.WorkDir
		cmd.Env = append(os.Environ(), env...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, args[0]) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			if cmd.Process != nil {
				_ = cmd.Process.Kill()
			}
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "import" {
		return strings.Contains(outputStr, "Database created successfully!")
	}
	return strings.Contains(outputStr, "Chart saved as")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("langtrends_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "backend", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Backend, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "import", "Import:")
	printCommandSummary(results, "report", "Report:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-7s %-7s: Cold: %s, Warm: %s\n", result.Dataset, result.Backend, result.ColdTime, result.WarmTime)
		}
	}
}
