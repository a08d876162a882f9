package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/graphmining/leiden-engine/pkg/leiden"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "edge list file (u<TAB>v<TAB>weight per line)")
		outputPath = flag.String("output", "", "write the JSON result here instead of stdout")
		configPath = flag.String("config", "", "optional config file (viper format)")
		resolution = flag.Float64("resolution", 1.0, "resolution parameter gamma")
		randomness = flag.Float64("randomness", 0.01, "refinement randomness theta")
		maxLevels  = flag.Int("max-levels", 10, "maximum hierarchy depth")
		seed       = flag.Int64("seed", 1, "random seed")
		strict     = flag.Bool("strict", false, "reject duplicate edges instead of summing them")
		logLevel   = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: leiden -input <edgelist_file> [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := leiden.NewConfig()
	if *configPath != "" {
		if err := cfg.LoadFromFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Set("algorithm.resolution", *resolution)
	cfg.Set("algorithm.randomness", *randomness)
	cfg.Set("algorithm.max_levels", *maxLevels)
	cfg.Set("algorithm.seed", *seed)
	cfg.Set("algorithm.strict_edges", *strict)
	cfg.Set("logging.level", *logLevel)
	cfg.Set("logging.enable_progress", true)

	logger := cfg.CreateLogger()

	numNodes, edges, err := readEdgeList(*inputPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *inputPath).Msg("Failed to read edge list")
	}
	logger.Info().Int("nodes", numNodes).Int("edges", len(edges)).Msg("Graph loaded")

	result, err := leiden.RunEdges(context.Background(), numNodes, edges, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Clustering failed")
	}

	logger.Info().
		Int("levels", result.NumLevels).
		Int("communities", countCommunities(result.FinalCommunities)).
		Float64("quality", result.Quality).
		Str("status", string(result.Status)).
		Msg("Clustering finished")

	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create output file")
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Fatal().Err(err).Msg("Failed to write result")
	}
}

// readEdgeList parses a whitespace-separated edge list. The weight column
// is optional and defaults to 1. Node count is 1 + the highest id seen.
func readEdgeList(path string) (int, []leiden.Edge, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer file.Close()

	var edges []leiden.Edge
	maxID := -1

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, nil, fmt.Errorf("line %d: expected at least 2 fields, got %d", lineNum, len(fields))
		}

		u, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, nil, fmt.Errorf("line %d: invalid node id %q", lineNum, fields[0])
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, nil, fmt.Errorf("line %d: invalid node id %q", lineNum, fields[1])
		}

		weight := 1.0
		if len(fields) > 2 {
			weight, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return 0, nil, fmt.Errorf("line %d: invalid weight %q", lineNum, fields[2])
			}
		}

		if u > maxID {
			maxID = u
		}
		if v > maxID {
			maxID = v
		}
		edges = append(edges, leiden.Edge{U: u, V: v, Weight: weight})
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, err
	}

	return maxID + 1, edges, nil
}

func countCommunities(assignment []int) int {
	seen := make(map[int]struct{}, len(assignment))
	for _, c := range assignment {
		seen[c] = struct{}{}
	}
	return len(seen)
}
