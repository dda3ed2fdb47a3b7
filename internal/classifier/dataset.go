package classifier

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
)

// Dataset is a list of labelled queries
type Dataset struct {
	Texts  []string
	Labels []string
}

// Len returns the number of examples
func (d Dataset) Len() int {
	return len(d.Texts)
}

// Add appends one example
func (d *Dataset) Add(text, label string) {
	d.Texts = append(d.Texts, text)
	d.Labels = append(d.Labels, label)
}

// LoadDatasetFile reads a CSV dataset from path
func LoadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return LoadDataset(f)
}

// LoadDataset reads CSV with a header containing "text" and "intent" columns.
// Rows with a blank text or intent are skipped.
func LoadDataset(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, ErrEmptyDataset
		}
		return Dataset{}, fmt.Errorf("failed to read dataset header: %w", err)
	}

	textCol, intentCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "text":
			textCol = i
		case "intent":
			intentCol = i
		}
	}
	if textCol < 0 || intentCol < 0 {
		return Dataset{}, fmt.Errorf("dataset header must contain text and intent columns, got %v", header)
	}

	var ds Dataset
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("failed to read dataset: %w", err)
		}
		if textCol >= len(record) || intentCol >= len(record) {
			continue
		}
		text := strings.TrimSpace(record[textCol])
		label := strings.TrimSpace(record[intentCol])
		if text == "" || label == "" {
			continue
		}
		ds.Add(text, label)
	}

	if ds.Len() == 0 {
		return Dataset{}, ErrEmptyDataset
	}
	return ds, nil
}

// StratifiedSplit shuffles each label's examples with seed and moves round(testSize·count)
// of them to the test set, keeping at least one example per label for training.
// The same dataset, ratio and seed always produce the same split.
func StratifiedSplit(ds Dataset, testSize float64, seed int64) (train, test Dataset, err error) {
	if ds.Len() == 0 {
		return Dataset{}, Dataset{}, ErrEmptyDataset
	}
	if testSize <= 0 || testSize >= 1 {
		return Dataset{}, Dataset{}, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	groups := make(map[string][]int)
	for i, label := range ds.Labels {
		groups[label] = append(groups[label], i)
	}
	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rng := rand.New(rand.NewSource(seed))
	for _, label := range labels {
		idx := groups[label]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		nTest := int(math.Round(testSize * float64(len(idx))))
		if nTest >= len(idx) {
			nTest = len(idx) - 1
		}
		for _, i := range idx[:nTest] {
			test.Add(ds.Texts[i], ds.Labels[i])
		}
		for _, i := range idx[nTest:] {
			train.Add(ds.Texts[i], ds.Labels[i])
		}
	}
	return train, test, nil
}
