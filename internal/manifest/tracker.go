// Package manifest records which retrievals have already completed so an
// interrupted multi-year batch run can resume where it left off. It keeps a
// small LRU in front of a DynamoDB table; manifest failures are never fatal
// to a run, they just mean a combination gets retrieved again.
package manifest

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

const defaultLRUSize = 4096

// DynamoDBClient is the subset of the DynamoDB API the manifest uses.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// NewDynamoClient creates a DynamoDB client from ambient AWS configuration,
// pointing at a local endpoint when DYNAMODB_ENDPOINT is set.
func NewDynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	if endpoint := os.Getenv("DYNAMODB_ENDPOINT"); endpoint != "" {
		log.Debug().Str("endpoint", endpoint).Msg("Using local DynamoDB endpoint")
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion("local"))
		if err != nil {
			return nil, err
		}
		return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		}), nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// Record is one completed retrieval, keyed by its output path.
type Record struct {
	Target      string `dynamodbav:"target"`
	CompletedAt int64  `dynamodbav:"completedAt"`
}

// Tracker is a two-layer completion manifest: LRU over DynamoDB.
type Tracker struct {
	lru    *lru.Cache[string, struct{}]
	client DynamoDBClient
	table  string
}

// New creates a tracker backed by the given table.
func New(client DynamoDBClient, table string) (*Tracker, error) {
	cache, err := lru.New[string, struct{}](defaultLRUSize)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		lru:    cache,
		client: client,
		table:  table,
	}, nil
}

// IsComplete reports whether target was already retrieved. Lookup errors
// are treated as misses.
func (t *Tracker) IsComplete(ctx context.Context, target string) bool {
	if _, ok := t.lru.Get(target); ok {
		return true
	}

	result, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.table),
		Key: map[string]types.AttributeValue{
			"target": &types.AttributeValueMemberS{Value: target},
		},
	})
	if err != nil {
		log.Warn().Err(err).Str("target", target).Msg("Manifest lookup failed, treating as missing")
		return false
	}
	if result.Item == nil {
		return false
	}

	t.lru.Add(target, struct{}{})
	return true
}

// MarkComplete records a finished retrieval in both layers. Write errors
// are logged, not surfaced.
func (t *Tracker) MarkComplete(ctx context.Context, target string) {
	t.lru.Add(target, struct{}{})

	record := Record{
		Target:      target,
		CompletedAt: time.Now().Unix(),
	}
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		log.Warn().Err(err).Str("target", target).Msg("Marshaling manifest record failed")
		return
	}

	if _, err := t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.table),
		Item:      item,
	}); err != nil {
		log.Warn().Err(err).Str("target", target).Msg("Recording completed retrieval failed")
		return
	}

	log.Debug().Str("target", target).Msg("Recorded completed retrieval")
}
