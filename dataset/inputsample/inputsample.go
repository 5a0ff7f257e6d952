/*
Package inputsample provides an implementation of feature.Sample whose
values are read from an io.Reader as they are needed.
*/
package inputsample

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/pbanos/sapling/feature"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string) error
}

type readSample struct {
	obtainedValues        map[string]string
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              []feature.Feature
}

/*
New takes an io.Reader, a slice of features, a FeatureValueRequester and
an undefinedValue coding string and returns a Sample.

The returned Sample ValueFor method reads feature values first
requesting them with the given FeatureValueRequester and then reading a
line from the reader. Lines not valid for the feature are rejected with
the FeatureValueRequester's RejectValueFor method and another line is
read. A line equal to undefinedValue stands for feature.UndefinedValue.

Each value is requested at most once: a tree only asks for the features
on the path the sample takes, and repeated requests for the same feature
return the value read the first time.

Requesting a value for a feature not in the given slice returns an error.
*/
func New(r io.Reader, features []feature.Feature, featureValueRequester FeatureValueRequester, undefinedValue string) feature.Sample {
	return &readSample{make(map[string]string), undefinedValue, bufio.NewScanner(r), featureValueRequester, features}
}

func (rs *readSample) ValueFor(_ context.Context, f feature.Feature) (string, error) {
	value, ok := rs.obtainedValues[f.Name()]
	if ok {
		return value, nil
	}
	featureWithInfo := feature.Find(rs.features, f.Name())
	if featureWithInfo == nil {
		return feature.UndefinedValue, fmt.Errorf("have no information about feature %s, do not know how to read its value", f.Name())
	}
	err := rs.featureValueRequester.RequestValueFor(featureWithInfo)
	if err != nil {
		return feature.UndefinedValue, err
	}
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		if line == rs.undefinedValue {
			rs.obtainedValues[f.Name()] = feature.UndefinedValue
			return feature.UndefinedValue, nil
		}
		if ok, _ := featureWithInfo.Valid(line); ok && line != feature.UndefinedValue {
			rs.obtainedValues[f.Name()] = line
			return line, nil
		}
		err = rs.featureValueRequester.RejectValueFor(featureWithInfo, line)
		if err != nil {
			return feature.UndefinedValue, err
		}
	}
	if err = rs.scanner.Err(); err != nil {
		return feature.UndefinedValue, err
	}
	return feature.UndefinedValue, fmt.Errorf("EOF when requesting value for %s", f.Name())
}
