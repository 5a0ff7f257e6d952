/*
Package yaml provides methods to parse feature.Feature declarations
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/pbanos/sapling/feature"
	yaml "gopkg.in/yaml.v2"
)

const (
	discreteDeclaration   = "discrete"
	continuousDeclaration = "continuous"
)

/*
ReadFeatures takes a slice of bytes with feature declarations in YML and
returns a slice of features parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each feature with its name and either a
list of valid values or the string 'discrete' (or nothing at all) for features
accepting any value. Features are returned in the order they are declared, which
is the column order used to break ties between equally informative features.
Features declared 'continuous' are rejected with feature.ErrUnsupportedFeature.
*/
func ReadFeatures(md []byte) ([]feature.Feature, error) {
	metadata := struct {
		Features yaml.MapSlice
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if metadata.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	features := make([]feature.Feature, 0, len(metadata.Features))
	for _, item := range metadata.Features {
		fn := fmt.Sprintf("%v", item.Key)
		switch values := item.Value.(type) {
		case nil:
			features = append(features, feature.NewDiscreteFeature(fn, nil))
		case string:
			switch values {
			case discreteDeclaration:
				features = append(features, feature.NewDiscreteFeature(fn, nil))
			case continuousDeclaration:
				return nil, fmt.Errorf("feature %s: %w: only categorical features can be used", fn, feature.ErrUnsupportedFeature)
			default:
				return nil, fmt.Errorf("feature %s: invalid declaration %q", fn, values)
			}
		case []interface{}:
			stringVs := make([]string, 0, len(values))
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			features = append(features, feature.NewDiscreteFeature(fn, stringVs))
		default:
			return nil, fmt.Errorf("invalid feature declaration of type %T", item.Value)
		}
	}
	return features, nil
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents and uses
ReadFeatures to parse it and return a slice of parsed features or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadFeaturesFromFile(filepath string) ([]feature.Feature, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	features, err := ReadFeatures(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %w", filepath, err)
	}
	return features, err
}
