package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskBulkCustomize = "catalog.bulk_customize"

type BulkCustomizePayload struct {
	JobID          string   `json:"jobId"`
	OrganizationID string   `json:"organizationId"`
	ServiceIDs     []string `json:"serviceIds"`
}

func NewBulkCustomizeTask(payload BulkCustomizePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBulkCustomize, data), nil
}

func ParseBulkCustomizePayload(task *asynq.Task) (BulkCustomizePayload, error) {
	var payload BulkCustomizePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return BulkCustomizePayload{}, err
	}
	return payload, nil
}
