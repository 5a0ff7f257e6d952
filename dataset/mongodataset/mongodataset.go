/*
Package mongodataset provides a way to load a dataset.Dataset from
the documents of a MongoDB collection.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// Error represents a mongodataset related error
type Error string

/*
ErrFeaturesRequired is returned when reading a dataset without features:
document fields have no order to infer them from.
*/
const ErrFeaturesRequired = Error("features are required to read samples from MongoDB documents")

func (e Error) Error() string {
	return string(e)
}

const (
	// DefaultCollectionName is the collection samples are read from by default
	DefaultCollectionName = "samples"
)

/*
Dial takes a MongoDB connection URL and returns a session on it or an error
if no connection could be established.
*/
func Dial(url string) (*mgo.Session, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %v", err)
	}
	return session, nil
}

/*
ReadDataset takes a context, a MongoDB session, a collection name, a slice of
features, an optional field to sort documents by and a dataset.Generator and
returns a dataset built with the Generator and a sample for every document
in the collection of the default database of the session.

The value of a sample for a feature is the document field with the feature
name, feature.UndefinedValue if the document has no such field. Values that
are not strings are formatted with fmt.

It returns ErrFeaturesRequired if no features are given.
*/
func ReadDataset(ctx context.Context, session *mgo.Session, collection string, features []feature.Feature, sortField string, dg dataset.Generator) (dataset.Dataset, error) {
	if len(features) == 0 {
		return nil, ErrFeaturesRequired
	}
	for _, f := range features {
		if err := validFieldName(f.Name()); err != nil {
			return nil, err
		}
	}
	if collection == "" {
		collection = DefaultCollectionName
	}
	query := session.DB("").C(collection).Find(nil)
	if sortField != "" {
		query = query.Sort(sortField)
	}
	iter := query.Iter()
	var doc bson.M
	samples := []dataset.Sample{}
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			iter.Close()
			return nil, err
		}
		s, err := sampleFromDocument(doc, features)
		if err != nil {
			iter.Close()
			return nil, fmt.Errorf("reading document %d: %v", len(samples), err)
		}
		samples = append(samples, s)
		doc = nil
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("reading collection %s: %v", collection, err)
	}
	return dg(samples), nil
}

func sampleFromDocument(doc bson.M, features []feature.Feature) (dataset.Sample, error) {
	featureValues := make(map[string]string, len(features))
	for _, f := range features {
		var value string
		switch v := doc[f.Name()].(type) {
		case nil:
			value = feature.UndefinedValue
		case string:
			value = v
		default:
			value = fmt.Sprintf("%v", v)
		}
		if ok, err := f.Valid(value); !ok {
			return nil, err
		}
		featureValues[f.Name()] = value
	}
	return dataset.NewSample(featureValues), nil
}

func validFieldName(fName string) error {
	if fName == "_id" {
		return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
	}
	if strings.ContainsAny(fName, ".$") {
		return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
	}
	return nil
}
