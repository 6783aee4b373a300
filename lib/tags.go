package lib

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const PurposeTag = "purpose"

const NoTag = "<no tag>"

// EC2MaxTags is the most user tags one ec2 resource can carry.
const EC2MaxTags = 50

// Tags keeps the order the backend returned them in. Later duplicates of a
// key overwrite the value but keep the first position.
type Tags struct {
	keys   []string
	values map[string]string
}

func EC2TagsOf(tags []ec2types.Tag) Tags {
	t := Tags{values: map[string]string{}}
	for _, tag := range tags {
		t.Set(aws.ToString(tag.Key), aws.ToString(tag.Value))
	}
	return t
}

func (t *Tags) Set(key, value string) {
	if t.values == nil {
		t.values = map[string]string{}
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value for key, or defaultValue when the key is absent.
func (t Tags) Get(key, defaultValue string) string {
	val, ok := t.values[key]
	if !ok {
		return defaultValue
	}
	return val
}

func (t Tags) Has(key string) bool {
	_, ok := t.values[key]
	return ok
}

// EC2 renders the tags for a TagSpecification. Keys under the reserved aws:
// prefix are dropped since the api refuses to set them.
func (t Tags) EC2() []ec2types.Tag {
	var res []ec2types.Tag
	for _, k := range t.keys {
		if strings.HasPrefix(strings.ToLower(k), "aws:") {
			continue
		}
		res = append(res, ec2types.Tag{Key: aws.String(k), Value: aws.String(t.values[k])})
	}
	return res
}

func EC2GetTag(tags []ec2types.Tag, key string, defaultValue string) string {
	return EC2TagsOf(tags).Get(key, defaultValue)
}
