package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"contactform/contact"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// API is the subset of the DynamoDB client used by the repository.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type ContactRepository struct {
	client API
	table  string
}

type contactItem struct {
	ID          string `dynamodbav:"id"`
	Name        string `dynamodbav:"name"`
	Email       string `dynamodbav:"email"`
	Phone       string `dynamodbav:"phone"`
	Message     string `dynamodbav:"message"`
	SubmittedAt string `dynamodbav:"submitted_at"`
}

func NewContactRepository(client API, table string) *ContactRepository {
	return &ContactRepository{
		client: client,
		table:  table,
	}
}

func (r *ContactRepository) CreateContact(ctx context.Context, s contact.Submission) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	item := contactItem{
		ID:          s.ID,
		Name:        s.Fields.Name,
		Email:       s.Fields.Email,
		Phone:       s.Fields.Phone,
		Message:     s.Fields.Message,
		SubmittedAt: s.SubmittedAt.UTC().Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamodb: marshal contact: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: put contact: %w", err)
	}

	return nil
}

// AllContacts scans the table and returns submissions, newest first.
func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Submission, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	var submissions []contact.Submission
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan contacts: %w", err)
		}

		var items []contactItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal contacts: %w", err)
		}
		for _, item := range items {
			submittedAt, err := time.Parse(time.RFC3339Nano, item.SubmittedAt)
			if err != nil {
				return nil, fmt.Errorf("dynamodb: parse submitted_at of %s: %w", item.ID, err)
			}
			submissions = append(submissions, contact.Submission{
				ID: item.ID,
				Fields: contact.Fields{
					Name:    item.Name,
					Email:   item.Email,
					Phone:   item.Phone,
					Message: item.Message,
				},
				SubmittedAt: submittedAt,
			})
		}
	}

	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})
	return submissions, nil
}
