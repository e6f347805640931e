package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeOptimiseAttachment = "attachment:optimise"

// optimiseRetention keeps a finished task's ID reserved long enough to absorb
// the watcher event caused by the optimiser replacing the original.
const optimiseRetention = time.Minute

type OptimiseAttachmentPayload struct {
	AttachmentID string `json:"attachment_id"`
}

// NewOptimiseAttachmentTask creates an Asynq task for optimising an attachment by ID.
// The task ID is derived from the attachment so one attachment is never queued twice.
func NewOptimiseAttachmentTask(attachmentID string) (*asynq.Task, error) {
	data, err := json.Marshal(OptimiseAttachmentPayload{AttachmentID: attachmentID})
	if err != nil {
		return nil, fmt.Errorf("could not marshal optimise-attachment payload: %w", err)
	}
	return asynq.NewTask(TypeOptimiseAttachment, data,
		asynq.MaxRetry(3),
		asynq.TaskID(OptimiseAttachmentTaskID(attachmentID)),
		asynq.Retention(optimiseRetention),
	), nil
}

func OptimiseAttachmentTaskID(attachmentID string) string {
	return TypeOptimiseAttachment + ":" + attachmentID
}

// ParseOptimiseAttachmentPayload parses the task payload to OptimiseAttachmentPayload.
func ParseOptimiseAttachmentPayload(t *asynq.Task) (OptimiseAttachmentPayload, error) {
	var p OptimiseAttachmentPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return OptimiseAttachmentPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
