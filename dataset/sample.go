package dataset

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/feature"
)

/*
Sample represents an item to process or from which to learn how to process them.

Its ValueFor method returns the value of the sample corresponding to the feature
passed as parameter, feature.UndefinedValue when it has none.
*/
type Sample interface {
	ValueFor(context.Context, feature.Feature) (string, error)
}

type sample struct {
	featureValues map[string]string
}

/*
NewSample takes a map of feature string names to values and returns
a sample.
*/
func NewSample(featureValues map[string]string) Sample {
	return &sample{featureValues}
}

func (s *sample) ValueFor(_ context.Context, f feature.Feature) (string, error) {
	return s.featureValues[f.Name()], nil
}

func (s *sample) String() string {
	return fmt.Sprintf("[%v]", s.featureValues)
}
