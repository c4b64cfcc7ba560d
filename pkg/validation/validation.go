package validation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gilchrisn/louvain-modularity/pkg/graph"
)

// ErrInvalidParameter is returned for algorithm parameters outside their documented range
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrInvalidEdge is returned for edges violating the non-negative weight precondition
var ErrInvalidEdge = errors.New("invalid edge")

// validate is a singleton validator instance
var validate = validator.New()

// ValidateParams checks a parameter struct against its `validate` tags and
// reports every failing field in one error wrapping ErrInvalidParameter.
func ValidateParams(params any) error {
	if params == nil {
		return fmt.Errorf("%w: parameters cannot be nil", ErrInvalidParameter)
	}
	if err := validate.Struct(params); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "lte":
			messages = append(messages, fmt.Sprintf("%s must be at most %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidParameter, strings.Join(messages, "; "))
}

// ValidateEdges checks that every edge weight is finite and non-negative
func ValidateEdges[K comparable](edges []graph.Edge[K]) error {
	for i, e := range edges {
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return fmt.Errorf("%w: edge %d (%v-%v) has non-finite weight %v", ErrInvalidEdge, i, e.From, e.To, e.Weight)
		}
		if e.Weight < 0 {
			return fmt.Errorf("%w: edge %d (%v-%v) has negative weight %v", ErrInvalidEdge, i, e.From, e.To, e.Weight)
		}
	}
	return nil
}

// ValidateInputFile checks that an input file exists, is a regular file and is readable
func ValidateInputFile(filePath string) error {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path is a directory: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	return file.Close()
}

// ValidateOutputDirectory checks if output directory exists or can be created
func ValidateOutputDirectory(outputDir string) error {
	info, err := os.Stat(outputDir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("cannot access output directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("output path exists but is not a directory: %s", outputDir)
	}

	// Check if directory is writable
	testFile := filepath.Join(outputDir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("output directory is not writable: %w", err)
	}
	os.Remove(testFile)

	return nil
}
