/*
Package feature defines the categorical features that describe samples,
the criteria that constrain them and the Sample interface through which
their values are read.
*/
package feature

import "fmt"

// Error represents a feature related error
type Error string

/*
ErrUnsupportedFeature is returned when a feature cannot be used to grow
trees, for instance features declared as continuous.
*/
const ErrUnsupportedFeature = Error("unsupported feature")

func (e Error) Error() string {
	return string(e)
}

/*
UndefinedValue is the value a sample holds for a feature it does not
define.
*/
const UndefinedValue = ""

/*
Feature represents a property that can be observed
*/
type Feature interface {
	Name() string
	Valid(string) (bool, error)
}

/*
DiscreteFeature represents a property that can be observed and that can only
take a value among a finite set. A DiscreteFeature without available values
accepts any value: its set of values is the one observed on the data.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid receives a value and returns a boolean and an error. When the
value is undefined, included in the available values of the feature or
the feature has no declared values, the method returns true and nil.
Otherwise it returns false and an error describing the reason.
*/
func (df *DiscreteFeature) Valid(value string) (bool, error) {
	if value == UndefinedValue || len(df.availableValues) == 0 {
		return true, nil
	}
	for _, av := range df.availableValues {
		if av == value {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), value)
}

/*
AvailableValues returns a string slice with the values available for the feature
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Without takes a slice of features and a feature and returns a new slice
with the features in the same order except the one with the same name as
the given feature.
*/
func Without(features []Feature, f Feature) []Feature {
	result := make([]Feature, 0, len(features))
	for _, sf := range features {
		if sf.Name() != f.Name() {
			result = append(result, sf)
		}
	}
	return result
}

/*
Find takes a slice of features and a name and returns the feature in the
slice with that name or nil if there is none.
*/
func Find(features []Feature, name string) Feature {
	for _, f := range features {
		if f.Name() == name {
			return f
		}
	}
	return nil
}
