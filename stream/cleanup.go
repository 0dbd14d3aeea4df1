// Package stream provides the DynamoDB Streams handler that cleans up
// orphaned dictionary nodes.
//
// The dictionary layer never removes nodes implicitly, but the host
// application can: a document purge or a host object erase deletes a
// dictionary item out-of-band and strands its descendants, which are only
// reachable through the deleted node's id. The handler watches the node
// table's stream for such removals and deletes the children of every
// removed dictionary node; those deletes re-enter the stream, so the
// cascade walks the whole subtree one level per invocation.
package stream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/espalier/docstore"
)

// Handler processes node-table stream events for orphan cleanup.
type Handler struct {
	store  *docstore.Store
	logger *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(s *docstore.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  s,
		logger: logger,
	}
}

// HandleOrphanCleanup deletes the children of every removed dictionary
// node in the event. Designed to be used as an AWS Lambda handler.
func (h *Handler) HandleOrphanCleanup(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord handles a single stream record. Only removals of dictionary
// nodes need work; record nodes are leaves.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if record.EventName != "REMOVE" {
		return nil
	}

	kind := getStringAttr(record.Change.OldImage, "kind")
	if kind != string(docstore.KindDictionary) {
		return nil
	}

	id := getStringAttr(record.Change.OldImage, "id")
	name := getStringAttr(record.Change.OldImage, "sk")
	if id == "" {
		return nil
	}

	h.logger.Info("cleaning up removed dictionary",
		"name", name,
		"id", id,
	)

	// Deleting a child dictionary re-enters the stream, so nested
	// subtrees unwind one level per event. Idempotent on retry.
	children, err := h.store.ListChildren(ctx, docstore.ContainerKey(id))
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}

	for _, child := range children {
		if err := h.store.DeleteNode(ctx, docstore.ContainerKey(id), child.Name); err != nil {
			h.logger.Warn("failed to delete orphaned child",
				"child", child.Name,
				"error", err,
			)
			return fmt.Errorf("delete child %q: %w", child.Name, err)
		}
	}

	h.logger.Info("orphan cleanup completed",
		"name", name,
		"childrenDeleted", len(children),
	)

	return nil
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeString {
			return v.String()
		}
	}
	return ""
}
