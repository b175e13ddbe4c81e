package db

import (
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
	calls []int
}

func (f *fakeDynamo) BatchGetItem(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		f.calls = append(f.calls, len(ka.Keys))
		for _, key := range ka.Keys {
			if item, ok := f.items[*key["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func TestGetSongMetadatasBatches(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{
		"a.mid": {
			"PK":     {S: aws.String("a.mid")},
			"Artist": {S: aws.String("Bach")},
			"Title":  {S: aws.String("Minuet")},
			"Year":   {N: aws.String("1725")},
		},
		"k.mid": {
			"PK":    {S: aws.String("k.mid")},
			"Title": {S: aws.String("No artist")},
		},
	}}
	var names []string
	for i := 0; i < 12; i++ {
		names = append(names, fmt.Sprintf("%c.mid", 'a'+i))
	}

	res, err := NewStore(fake, "songs").GetSongMetadatas(names)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]int{10, 2}, fake.calls)
	assert.Len(res, 2)
	assert.Equal("Bach", res["a.mid"].Artist)
	assert.Equal(uint(1725), res["a.mid"].Year)
	assert.Equal("", res["k.mid"].Artist)
	assert.Equal("No artist", res["k.mid"].Title)
}

func TestGetSongMetadatasEmpty(t *testing.T) {
	fake := &fakeDynamo{}
	res, err := NewStore(fake, "songs").GetSongMetadatas(nil)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Empty(t, fake.calls)
}
