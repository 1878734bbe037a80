package labeler

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"github.com/imglabel/label-pipe/internal/types"
)

// resultItem is the wire shape of a ResultRecord in the results table.
// Labels are embedded as a JSON document rather than a normalized
// list; expires_at is the only numeric attribute.
type resultItem struct {
	Filename  string `dynamodbav:"filename"`
	Timestamp string `dynamodbav:"timestamp"`
	Branch    string `dynamodbav:"branch"`
	Labels    string `dynamodbav:"labels"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
}

// putRecord writes the record as a single unconditional insert. An
// existing item with the same filename is fully replaced.
func (l *Labeler) putRecord(table string, record types.ResultRecord) error {
	labels, err := types.MarshalLabels(record.Labels)
	if err != nil {
		return &PersistenceError{Table: table, Key: record.Filename, Err: err}
	}

	item, err := dynamodbattribute.MarshalMap(resultItem{
		Filename:  record.Filename,
		Timestamp: record.Timestamp,
		Branch:    record.Branch,
		Labels:    labels,
		ExpiresAt: record.ExpiresAt,
	})
	if err != nil {
		return &PersistenceError{Table: table, Key: record.Filename, Err: err}
	}

	_, err = l.ddbClient.PutItem(&dynamodb.PutItemInput{
		Item:      item,
		TableName: aws.String(table),
	})
	if err != nil {
		return &PersistenceError{Table: table, Key: record.Filename, Err: err}
	}
	return nil
}
