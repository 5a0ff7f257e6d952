/*
Package redisdataset provides a way to load a dataset.Dataset from a Redis
list of JSON encoded samples.
*/
package redisdataset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	redis "gopkg.in/redis.v5"
)

// Error represents a redisdataset related error
type Error string

/*
ErrFeaturesRequired is returned when reading a dataset without features:
JSON object keys have no order to infer them from.
*/
const ErrFeaturesRequired = Error("features are required to read samples from Redis")

func (e Error) Error() string {
	return string(e)
}

const (
	// DefaultKey is the key of the list samples are read from by default
	DefaultKey = "samples"
	pageSize   = 1000
)

/*
ParseURL takes a URL of the form redis://[:password@]host[:port][/db][?key=list]
and returns the options to connect to the Redis server and the key of the
list holding the samples, DefaultKey if the URL has none.
*/
func ParseURL(rawurl string) (*redis.Options, string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, "", fmt.Errorf("parsing redis URL: %v", err)
	}
	if u.Scheme != "redis" {
		return nil, "", fmt.Errorf("parsing redis URL: invalid scheme %q", u.Scheme)
	}
	opts := &redis.Options{Addr: u.Host}
	if u.Port() == "" {
		opts.Addr = u.Host + ":6379"
	}
	if u.User != nil {
		opts.Password, _ = u.User.Password()
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		opts.DB, err = strconv.Atoi(db)
		if err != nil {
			return nil, "", fmt.Errorf("parsing redis URL: invalid database %q", db)
		}
	}
	key := u.Query().Get("key")
	if key == "" {
		key = DefaultKey
	}
	return opts, key, nil
}

/*
ReadDataset takes a context, a Redis client, the key of a list, a slice of
features and a dataset.Generator and returns a dataset built with the
Generator and a sample for every element of the list, in list order.

Every element is expected to be a JSON object with the values of the sample
keyed by feature name. Missing or null values are feature.UndefinedValue and
values that are not strings are formatted with fmt.

It returns ErrFeaturesRequired if no features are given.
*/
func ReadDataset(ctx context.Context, rc *redis.Client, key string, features []feature.Feature, dg dataset.Generator) (dataset.Dataset, error) {
	if len(features) == 0 {
		return nil, ErrFeaturesRequired
	}
	if key == "" {
		key = DefaultKey
	}
	samples := []dataset.Sample{}
	for start := int64(0); ; start += pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := rc.LRange(key, start, start+pageSize-1).Result()
		if err != nil {
			return nil, fmt.Errorf("reading list %s from redis: %v", key, err)
		}
		for i, row := range rows {
			s, err := decodeSample(row, features)
			if err != nil {
				return nil, fmt.Errorf("decoding element %d of list %s: %v", start+int64(i), key, err)
			}
			samples = append(samples, s)
		}
		if len(rows) < pageSize {
			break
		}
	}
	return dg(samples), nil
}

func decodeSample(data string, features []feature.Feature) (dataset.Sample, error) {
	var doc map[string]interface{}
	err := json.Unmarshal([]byte(data), &doc)
	if err != nil {
		return nil, err
	}
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
