package dto

import (
	"fmt"
	"net/http"
)

// Workflow - допустимые переходы статусов и их подписи.
type Workflow struct {
	Initial     string
	Transitions map[string][]string
	Labels      map[string]string
}

func (w Workflow) CanTransition(from, to string) bool {
	for _, next := range w.Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next - куда можно перейти из текущего статуса.
func (w Workflow) Next(from string) []Option {
	var out []Option
	for _, next := range w.Transitions[from] {
		out = append(out, Option{Value: next, Label: w.Label(next)})
	}
	return out
}

func (w Workflow) Label(status string) string {
	if label, ok := w.Labels[status]; ok {
		return label
	}
	return orDash(status)
}

// TransitionError - переход статуса запрещен.
type TransitionError struct {
	From, To string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("переход статуса %q -> %q запрещен", e.From, e.To)
}

func (e *TransitionError) UserMessage() string {
	return "Không thể chuyển sang trạng thái này"
}

func (e *TransitionError) HTTPStatus() int { return http.StatusConflict }

// Stateful - строка, у которой есть статус рабочего процесса.
type Stateful interface {
	State() string
}

// StatusDTO - тело запроса смены статуса.
type StatusDTO struct {
	Status string `json:"status" form:"status" validate:"required"`
	Note   string `json:"note,omitempty" form:"note" validate:"max=500"`
}

const (
	RepairPending    = "Pending"
	RepairInProgress = "InProgress"
	RepairCompleted  = "Completed"
	RepairRejected   = "Rejected"

	MaintenanceScheduled = "Scheduled"
	MaintenanceCompleted = "Completed"
	MaintenanceCancelled = "Cancelled"
)

var RepairWorkflow = Workflow{
	Initial: RepairPending,
	Transitions: map[string][]string{
		RepairPending:    {RepairInProgress, RepairRejected},
		RepairInProgress: {RepairCompleted},
	},
	Labels: map[string]string{
		RepairPending:    "Chờ xử lý",
		RepairInProgress: "Đang sửa chữa",
		RepairCompleted:  "Hoàn thành",
		RepairRejected:   "Từ chối",
	},
}

var MaintenanceWorkflow = Workflow{
	Initial: MaintenanceScheduled,
	Transitions: map[string][]string{
		MaintenanceScheduled: {MaintenanceCompleted, MaintenanceCancelled},
	},
	Labels: map[string]string{
		MaintenanceScheduled: "Đã lên lịch",
		MaintenanceCompleted: "Hoàn thành",
		MaintenanceCancelled: "Đã hủy",
	},
}
