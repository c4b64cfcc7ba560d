// Package output writes community detection results to disk.
package output

import (
	"bufio"
	"encoding/json"
	"io"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/gilchrisn/louvain-modularity/pkg/louvain"
)

// Writer generates the output files of one run
type Writer[K comparable, L any] interface {
	WriteMapping(result *louvain.Result[K, L], path string) error
	WriteRoot(result *louvain.Result[K, L], path string) error
	WriteEdges(result *louvain.Result[K, L], path string) error
	WriteAssignments(result *louvain.Result[K, L], path string) error
	WriteJSON(result *louvain.Result[K, L], path string) error
	WriteSummary(result *louvain.Result[K, L], path string) error
	WriteAll(result *louvain.Result[K, L], outputDir string, prefix string) ([]string, error)
}

// FileWriter implements Writer for file-based output
type FileWriter[K comparable, L any] struct {
	logger zerolog.Logger
}

// NewFileWriter creates a new file-based output writer
func NewFileWriter[K comparable, L any](logger zerolog.Logger) *FileWriter[K, L] {
	return &FileWriter[K, L]{logger: logger}
}

// WriteAll writes every output file into outputDir and returns their paths
func (fw *FileWriter[K, L]) WriteAll(result *louvain.Result[K, L], outputDir string, prefix string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	steps := []struct {
		ext   string
		write func(*louvain.Result[K, L], string) error
	}{
		{"mapping", fw.WriteMapping},
		{"root", fw.WriteRoot},
		{"edges", fw.WriteEdges},
		{"assignments", fw.WriteAssignments},
		{"json", fw.WriteJSON},
		{"summary.yaml", fw.WriteSummary},
	}

	written := make([]string, 0, len(steps))
	for _, step := range steps {
		path := filepath.Join(outputDir, fmt.Sprintf("%s.%s", prefix, step.ext))
		if err := step.write(result, path); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", step.ext, err)
		}
		written = append(written, path)
	}

	fw.logger.Info().
		Str("directory", outputDir).
		Str("prefix", prefix).
		Int("files", len(written)).
		Msg("Output files written")

	return written, nil
}

// communityName is the identifier of community id in the top level
func communityName[K comparable, L any](result *louvain.Result[K, L], id int) string {
	return fmt.Sprintf("c0_l%d_%d", result.NumLevels, id)
}

func communityIDs[K comparable](groups map[int][]K) []int {
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// WriteMapping writes each final community followed by its member count and
// its original nodes, one per line
func (fw *FileWriter[K, L]) WriteMapping(result *louvain.Result[K, L], path string) error {
	groups := result.Communities()
	nodeCount := 0
	err := writeText(path, func(w io.Writer) {
		for _, id := range communityIDs(groups) {
			members := sortedKeys(groups[id])
			nodeCount += len(members)

			fmt.Fprintf(w, "%s\n", communityName(result, id))
			fmt.Fprintf(w, "%d\n", len(members))
			for _, node := range members {
				fmt.Fprintf(w, "%v\n", node)
			}
		}
	})
	if err != nil {
		return err
	}

	fw.logger.Debug().Str("path", path).Int("nodes", nodeCount).Msg("Mapping written")
	return nil
}

// WriteRoot writes the identifiers of the top-level communities
func (fw *FileWriter[K, L]) WriteRoot(result *louvain.Result[K, L], path string) error {
	return writeText(path, func(w io.Writer) {
		for _, id := range communityIDs(result.Communities()) {
			fmt.Fprintf(w, "%s\n", communityName(result, id))
		}
	})
}

// WriteEdges writes every pair of final communities joined by at least one
// input edge, smaller id first
func (fw *FileWriter[K, L]) WriteEdges(result *louvain.Result[K, L], path string) error {
	type pair struct{ a, b int }
	seen := make(map[pair]bool)
	var pairs []pair
	for _, e := range result.Graph.Edges() {
		a, b := result.FinalCommunities[e.From], result.FinalCommunities[e.To]
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		if p := (pair{a, b}); !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})

	return writeText(path, func(w io.Writer) {
		for _, p := range pairs {
			fmt.Fprintf(w, "%s %s\n", communityName(result, p.a), communityName(result, p.b))
		}
	})
}

// WriteAssignments writes one "node community" line per original node
func (fw *FileWriter[K, L]) WriteAssignments(result *louvain.Result[K, L], path string) error {
	return writeText(path, func(w io.Writer) {
		for _, node := range sortedKeys(result.Graph.Nodes()) {
			fmt.Fprintf(w, "%v %d\n", node, result.FinalCommunities[node])
		}
	})
}

// writeText creates path and fills it through a buffered writer. The
// writer's first error surfaces on Flush, so fill need not check its writes.
func writeText(path string, fill func(w io.Writer)) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	buf := bufio.NewWriter(file)
	fill(buf)
	if ferr := buf.Flush(); ferr != nil {
		return fmt.Errorf("write %s: %w", path, ferr)
	}
	return nil
}

type nodeRecord[K comparable, L any] struct {
	Node      K   `json:"node"`
	Label     L   `json:"label"`
	Community int `json:"community"`
}

type jsonReport[K comparable, L any] struct {
	RunID                string              `json:"run_id"`
	NumCommunities       int                 `json:"num_communities"`
	Modularity           float64             `json:"modularity"`
	NormalizedModularity float64             `json:"normalized_modularity"`
	NumLevels            int                 `json:"num_levels"`
	Levels               []louvain.LevelInfo `json:"levels"`
	Statistics           louvain.Statistics  `json:"statistics"`
	Nodes                []nodeRecord[K, L]  `json:"nodes"`
}

// WriteJSON writes the run result as a JSON document with one record per node
func (fw *FileWriter[K, L]) WriteJSON(result *louvain.Result[K, L], path string) error {
	report := jsonReport[K, L]{
		RunID:                result.RunID,
		NumCommunities:       result.NumCommunities,
		Modularity:           result.Modularity,
		NormalizedModularity: result.NormalizedModularity,
		NumLevels:            result.NumLevels,
		Levels:               result.Levels,
		Statistics:           result.Statistics,
	}
	for _, node := range result.Graph.Nodes() {
		label, err := result.Graph.Label(node)
		if err != nil {
			return err
		}
		report.Nodes = append(report.Nodes, nodeRecord[K, L]{
			Node:      node,
			Label:     label.Label,
			Community: label.Community,
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Summary is the YAML run report
type Summary struct {
	RunID                string              `yaml:"run_id"`
	NumNodes             int                 `yaml:"num_nodes"`
	NumEdges             int                 `yaml:"num_edges"`
	NumCommunities       int                 `yaml:"num_communities"`
	Modularity           float64             `yaml:"modularity"`
	NormalizedModularity float64             `yaml:"normalized_modularity"`
	NumLevels            int                 `yaml:"num_levels"`
	CommunitySizes       map[int]int         `yaml:"community_sizes"`
	Levels               []louvain.LevelInfo `yaml:"levels"`
	Statistics           louvain.Statistics  `yaml:"statistics"`
}

// NewSummary condenses result into a Summary
func NewSummary[K comparable, L any](result *louvain.Result[K, L]) Summary {
	sizes := make(map[int]int)
	for id, members := range result.Communities() {
		sizes[id] = len(members)
	}

	return Summary{
		RunID:                result.RunID,
		NumNodes:             result.Graph.Order(),
		NumEdges:             result.Graph.Size(),
		NumCommunities:       result.NumCommunities,
		Modularity:           result.Modularity,
		NormalizedModularity: result.NormalizedModularity,
		NumLevels:            result.NumLevels,
		CommunitySizes:       sizes,
		Levels:               result.Levels,
		Statistics:           result.Statistics,
	}
}

// WriteSummary writes the YAML run report
func (fw *FileWriter[K, L]) WriteSummary(result *louvain.Result[K, L], path string) error {
	data, err := yaml.Marshal(NewSummary(result))
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// sortedKeys orders node keys numerically when every key prints as an
// integer and lexicographically by their printed form otherwise
func sortedKeys[K comparable](keys []K) []K {
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = fmt.Sprint(k)
	}

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	if allIDsAreIntegers(ids) {
		sort.SliceStable(order, func(i, j int) bool {
			a, _ := strconv.Atoi(ids[order[i]])
			b, _ := strconv.Atoi(ids[order[j]])
			return a < b
		})
	} else {
		sort.SliceStable(order, func(i, j int) bool { return ids[order[i]] < ids[order[j]] })
	}

	sorted := make([]K, len(keys))
	for i, at := range order {
		sorted[i] = keys[at]
	}
	return sorted
}

// allIDsAreIntegers checks if all IDs can be parsed as integers
func allIDsAreIntegers(ids []string) bool {
	for _, id := range ids {
		if _, err := strconv.Atoi(id); err != nil {
			return false
		}
	}
	return true
}
