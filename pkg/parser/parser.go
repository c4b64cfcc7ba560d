// Package parser reads graphs from plain text edge lists.
//
// An edge list has one edge per line: "from to [weight]". Blank lines and
// lines starting with '#' are skipped and a missing weight defaults to 1.
// Files ending in ".sz" are read through a snappy stream decoder.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/golang/snappy"

	"github.com/gilchrisn/louvain-modularity/pkg/graph"
	"github.com/gilchrisn/louvain-modularity/pkg/validation"
)

// CompressedExt marks snappy-framed input files
const CompressedExt = ".sz"

// ErrMalformedLine is returned for lines that cannot be parsed
var ErrMalformedLine = errors.New("malformed line")

type compressedFile struct {
	io.Reader
	file *os.File
}

func (c *compressedFile) Close() error { return c.file.Close() }

// Open opens path for reading, decompressing it when it ends in CompressedExt
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, CompressedExt) {
		return &compressedFile{Reader: snappy.NewReader(file), file: file}, nil
	}
	return file, nil
}

// ParseEdgeList reads "from to [weight]" lines from r
func ParseEdgeList(r io.Reader) ([]graph.Edge[string], error) {
	var edges []graph.Edge[string]
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("%w %d: expected \"from to [weight]\", got %q", ErrMalformedLine, lineNo, line)
		}

		weight := 1.0
		if len(parts) == 3 {
			w, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				return nil, fmt.Errorf("%w %d: invalid weight %q: %v", ErrMalformedLine, lineNo, parts[2], err)
			}
			weight = w
		}

		edges = append(edges, graph.Edge[string]{From: parts[0], To: parts[1], Weight: weight})
	}

	return edges, scanner.Err()
}

// ParseLabels reads "id label..." lines from r. Everything after the first
// field is the label; an id alone gets an empty label.
func ParseLabels(r io.Reader) (map[string]string, []string, error) {
	labels := make(map[string]string)
	var order []string
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, label := line, ""
		if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
			id, label = line[:i], line[i+1:]
		}
		if _, seen := labels[id]; !seen {
			order = append(order, id)
		}
		labels[id] = strings.TrimSpace(label)
	}

	return labels, order, scanner.Err()
}

// LoadGraph reads an edge list and an optional labels file into a graph.
// Nodes listed in the labels file come first, in file order, followed by
// the remaining edge endpoints in order of first appearance.
func LoadGraph(edgesPath, labelsPath string) (*graph.Graph[string, string], error) {
	edges, err := readEdges(edgesPath)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateEdges(edges); err != nil {
		return nil, fmt.Errorf("%s: %w", edgesPath, err)
	}

	g := graph.New[string, string]()
	if labelsPath != "" {
		labels, order, err := readLabels(labelsPath)
		if err != nil {
			return nil, err
		}
		for _, id := range order {
			g.AddNode(id, labels[id])
		}
	}

	for _, e := range edges {
		g.AddEdge(e.From, e.To, e.Weight)
	}
	return g, nil
}

func readEdges(path string) ([]graph.Edge[string], error) {
	file, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	edges, err := ParseEdgeList(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return edges, nil
}

func readLabels(path string) (map[string]string, []string, error) {
	file, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	labels, order, err := ParseLabels(file)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, order, nil
}
