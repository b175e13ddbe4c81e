package db

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/unscatty/PianoViaR-sub000/constants"
	"github.com/unscatty/PianoViaR-sub000/model"
	"github.com/unscatty/PianoViaR-sub000/util"
)

// Store reads song metadata from a DynamoDB table keyed by midi path ("PK").
type Store struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewStore(client dynamodbiface.DynamoDBAPI, table string) *Store {
	return &Store{client: client, table: table}
}

// Connect opens a Store on the configured endpoint and table.
func Connect() (*Store, error) {
	endpoint := constants.GetMetadataEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewStore(dynamodb.New(sess), constants.GetMetadataTable()), nil
}

// GetSongMetadatas looks up filenames in batches. Files without metadata are
// missing from the result.
func (s *Store) GetSongMetadatas(filenames []string) (map[string]model.SongMetadata, error) {
	res := make(map[string]model.SongMetadata)
	for start := 0; start < len(filenames); start += constants.MetadataBatchSize {
		end := util.Min(start+constants.MetadataBatchSize, len(filenames))
		if err := s.getBatch(filenames[start:end], res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *Store) getBatch(filenames []string, res map[string]model.SongMetadata) error {
	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		key := make(map[string]*dynamodb.AttributeValue)
		key["PK"] = &dynamodb.AttributeValue{
			S: aws.String(filename),
		}
		keys = append(keys, key)
	}

	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			s.table: {Keys: keys},
		},
	}
	dbres, err := s.client.BatchGetItem(input)
	if err != nil {
		return errors.Wrap(err, "error from DynamoDB")
	}
	if n := len(dbres.UnprocessedKeys); n > 0 {
		log.WithField("tables", n).Warn("some metadata keys were not processed")
	}

	for _, v := range dbres.Responses[s.table] {
		pk := stringAttr(v, "PK")
		if pk == "" {
			continue
		}
		var m model.SongMetadata
		if attr, ok := v["Year"]; ok && attr.N != nil {
			year, _ := strconv.ParseUint(*attr.N, 10, 32)
			m.Year = uint(year)
		}
		m.Artist = stringAttr(v, "Artist")
		m.Release = stringAttr(v, "Release")
		m.Title = stringAttr(v, "Title")
		res[pk] = m
	}
	return nil
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if attr, ok := item[name]; ok && attr.S != nil {
		return *attr.S
	}
	return ""
}
