/*
Package csv provides functions to read datasets from CSV streams and write
samples to them.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// UndefinedValue is the CSV coding of feature.UndefinedValue
const UndefinedValue = "?"

/*
Writer is an interface for a CSV stream to which samples
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given number
	// of samples and will return the actually written
	// number of samples and an error (if not all samples
	// could be written)
	Write(context.Context, []feature.Sample) (int, error)
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count    int
	features []feature.Feature
	w        *csv.Writer
}

/*
ReadDataset takes an io.Reader for a CSV stream, a slice of features and a
dataset.Generator and returns a dataset.Dataset built with the Generator and
the samples parsed from the reader, together with the features of its
columns, or an error.

The header or first row of the CSV content is expected to consist of the names
of the features in the given slice. When no features are given, a feature
accepting any value is created for every column in the header. The rest of the
rows should consist of valid values for all features and/or the '?' string to
indicate an undefined value.
*/
func ReadDataset(reader io.Reader, features []feature.Feature, dg dataset.Generator) (dataset.Dataset, []feature.Feature, error) {
	samples := []dataset.Sample{}
	features, err := ReadDatasetBySample(reader, features, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return dg(samples), features, nil
}

/*
ReadDatasetBySample takes an io.Reader for a CSV stream, a slice of features and
a lambda function on an integer and a dataset.Sample that returns a boolean value.
It parses the samples from the reader and for each it calls the lambda function
with the sample and its index as parameters. If the lambda function returns true,
it will continue processing the next sample, otherwise it will stop. It returns
the features of the columns in the CSV stream, or an error if something goes
wrong when reading the stream or parsing a sample.
*/
func ReadDatasetBySample(reader io.Reader, features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) ([]feature.Feature, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	features, err = parseFeaturesFromCSVHeader(header, features)
	if err != nil {
		return nil, err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseSampleFromCSVRow(row, features)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	return features, nil
}

/*
ReadDatasetFromFilePath takes a filepath string, a slice of features and a
dataset.Generator, opens the file to which the filepath points to and uses
ReadDataset to return a dataset.Dataset and its features or an error read
from it. If the filepath is "" os.Stdin is used instead. It will return an
error if the given filepath cannot be opened for reading.
*/
func ReadDatasetFromFilePath(filepath string, features []feature.Feature, dg dataset.Generator) (dataset.Dataset, []feature.Feature, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	ds, features, err := ReadDataset(f, features, dg)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %w", filepath, err)
	}
	return ds, features, err
}

/*
NewWriter takes an io.Writer and a slice of feature.Features and
returns a Writer that will write any samples on the io.Writer.
*/
func NewWriter(writer io.Writer, features []feature.Feature) (Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, len(features))
	for i, f := range features {
		record[i] = f.Name()
	}
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{features: features, w: w}, nil
}

func parseFeaturesFromCSVHeader(header []string, features []feature.Feature) ([]feature.Feature, error) {
	if len(features) == 0 {
		inferred := make([]feature.Feature, 0, len(header))
		for _, name := range header {
			inferred = append(inferred, feature.NewDiscreteFeature(name, nil))
		}
		return inferred, nil
	}
	featureOrder := make([]feature.Feature, 0, len(header))
	for _, name := range header {
		f := feature.Find(features, name)
		if f == nil {
			return nil, fmt.Errorf("parsing header: reference to unknown feature %s", name)
		}
		featureOrder = append(featureOrder, f)
	}
	return featureOrder, nil
}

func parseSampleFromCSVRow(row []string, featureOrder []feature.Feature) (dataset.Sample, error) {
	featureValues := make(map[string]string, len(featureOrder))
	for i, f := range featureOrder {
		value := row[i]
		if value == UndefinedValue {
			value = feature.UndefinedValue
		}
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %q for feature %s: %v", value, f.Name(), err)
		}
		featureValues[f.Name()] = value
	}
	return dataset.NewSample(featureValues), nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples []feature.Sample) (int, error) {
	for n, s := range samples {
		err := cw.writeSample(ctx, s)
		if err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) writeSample(ctx context.Context, sample feature.Sample) error {
	record := make([]string, len(cw.features))
	for j, f := range cw.features {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		if v == feature.UndefinedValue {
			v = UndefinedValue
		}
		record[j] = v
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
