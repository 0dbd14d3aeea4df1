package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/google/uuid"
)

// Store is the DynamoDB-backed node store.
type Store struct {
	client *dynamodb.Client
	config Config
}

// New creates a new Store instance.
func New(client *dynamodb.Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// WithTransaction implements TxStore. Registered writes commit atomically
// with TransactWriteItems; a body that registers none commits without a
// store round-trip.
func (s *Store) WithTransaction(ctx context.Context, fn func(Tx) error) error {
	tx := &dynamoTx{store: s, writes: newWriteSet()}
	defer func() { tx.done = true }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit(ctx)
}

// ListChildren returns the committed children of a container, sorted by
// name, outside any transaction. Used by the stream cleanup handler.
func (s *Store) ListChildren(ctx context.Context, parent ContainerKey) ([]*Node, error) {
	return s.queryChildren(ctx, parent)
}

// DeleteNode removes a node item outside any transaction. Deleting a
// missing node is not an error.
func (s *Store) DeleteNode(ctx context.Context, parent ContainerKey, name string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       nodeKey(parent, name),
	})
	if err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	return nil
}

// queryChildren paginates over the partition holding parent's children.
func (s *Store) queryChildren(ctx context.Context, parent ContainerKey) ([]*Node, error) {
	var nodes []*Node

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: string(parent)},
		},
		ConsistentRead: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query children: %w", err)
		}
		for _, raw := range page.Items {
			n, err := unmarshalNode(raw)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
	}

	return nodes, nil
}

// dynamoTx buffers writes for one transaction. Reads go straight to the
// table with consistent reads, shadowed by the buffered writes.
type dynamoTx struct {
	store  *Store
	writes *writeSet
	done   bool
}

func (t *dynamoTx) Get(ctx context.Context, parent ContainerKey, name string, mode OpenMode) (*Node, error) {
	if t.done {
		return nil, ErrTxDone
	}
	_ = mode // advisory here; commit-time conditions enforce exclusivity

	if op, ok := t.writes.lookup(itemKey{parent: parent, name: name}); ok {
		if op.node == nil {
			return nil, ErrNotFound
		}
		return op.node.clone(), nil
	}

	out, err := t.store.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(t.store.config.TableName),
		Key:            nodeKey(parent, name),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}
	return unmarshalNode(out.Item)
}

func (t *dynamoTx) Create(ctx context.Context, parent ContainerKey, node Node) (*Node, error) {
	if t.done {
		return nil, ErrTxDone
	}
	if err := node.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	node.ID = NodeID(uuid.New().String())
	node.CreatedAt = now
	node.UpdatedAt = now

	if err := t.writes.put(itemKey{parent: parent, name: node.Name}, &node); err != nil {
		return nil, err
	}
	return node.clone(), nil
}

func (t *dynamoTx) Erase(ctx context.Context, parent ContainerKey, name string) error {
	if t.done {
		return ErrTxDone
	}
	t.writes.erase(itemKey{parent: parent, name: name})
	return nil
}

func (t *dynamoTx) Children(ctx context.Context, parent ContainerKey) ([]*Node, error) {
	if t.done {
		return nil, ErrTxDone
	}
	committed, err := t.store.queryChildren(ctx, parent)
	if err != nil {
		return nil, err
	}
	return t.writes.overlayChildren(parent, committed), nil
}

func (t *dynamoTx) commit(ctx context.Context) error {
	ops := t.writes.all()
	if len(ops) == 0 {
		return nil
	}

	items := make([]types.TransactWriteItem, 0, len(ops))
	for _, op := range ops {
		if op.node == nil {
			items = append(items, types.TransactWriteItem{
				Delete: &types.Delete{
					TableName: aws.String(t.store.config.TableName),
					Key:       nodeKey(op.key.parent, op.key.name),
				},
			})
			continue
		}

		item, err := marshalNode(op.key.parent, op.node)
		if err != nil {
			return err
		}
		put := &types.Put{
			TableName: aws.String(t.store.config.TableName),
			Item:      item,
		}
		if !op.replace {
			put.ConditionExpression = aws.String("attribute_not_exists(pk)")
		}
		items = append(items, types.TransactWriteItem{Put: put})
	}

	_, err := t.store.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	return mapCommitError(err)
}

// mapCommitError maps DynamoDB transaction cancellation to sentinel errors.
func mapCommitError(err error) error {
	if err == nil {
		return nil
	}

	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		for _, reason := range txErr.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				// The only conditions we attach are create guards.
				return ErrConflict
			}
		}
	}

	return fmt.Errorf("commit: %w", err)
}

// nodeItem is the persisted attribute layout of a node.
type nodeItem struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	ID        string `dynamodbav:"id"`
	Kind      string `dynamodbav:"kind"`
	Encoding  string `dynamodbav:"encoding"`
	Payload   string `dynamodbav:"payload"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func nodeKey(parent ContainerKey, name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: string(parent)},
		"sk": &types.AttributeValueMemberS{Value: name},
	}
}

func marshalNode(parent ContainerKey, n *Node) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(nodeItem{
		PK:        string(parent),
		SK:        n.Name,
		ID:        string(n.ID),
		Kind:      string(n.Kind),
		Encoding:  string(n.Encoding),
		Payload:   n.Payload,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal node: %w", err)
	}
	return item, nil
}

func unmarshalNode(raw map[string]types.AttributeValue) (*Node, error) {
	var item nodeItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, fmt.Errorf("unmarshal node: %w", err)
	}
	return &Node{
		ID:        NodeID(item.ID),
		Name:      item.SK,
		Kind:      Kind(item.Kind),
		Encoding:  Encoding(item.Encoding),
		Payload:   item.Payload,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}, nil
}
