package notify

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Abraxas-365/careerpath/pkg/errx"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/candidate"
	"github.com/hibiken/asynq"
)

const (
	// TaskCandidatePassed se encola cada vez que un candidato aprueba la
	// decisión final
	TaskCandidatePassed = "notify:candidate_passed"
)

// AsynqNotifier implementa candidate.PassedNotifier encolando la notificación
// en Redis. La entrega queda en manos del worker.
type AsynqNotifier struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// NewAsynqNotifier crea un nuevo encolador de notificaciones
func NewAsynqNotifier(client *asynq.Client, queue string, maxRetry int) *AsynqNotifier {
	return &AsynqNotifier{
		client:   client,
		queue:    queue,
		maxRetry: maxRetry,
	}
}

// NotifyCandidatePassed encola la tarea de notificación a HR
func (n *AsynqNotifier) NotifyCandidatePassed(ctx context.Context, notification candidate.PassedNotification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return ErrEnqueueFailed().WithError(err)
	}

	task := asynq.NewTask(TaskCandidatePassed, data)
	_, err = n.client.EnqueueContext(ctx, task, asynq.Queue(n.queue), asynq.MaxRetry(n.maxRetry))
	if err != nil {
		return ErrEnqueueFailed().WithError(err)
	}

	return nil
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("NOTIFY")

var (
	CodeEnqueueFailed  = ErrRegistry.Register("ENQUEUE_FAILED", errx.TypeExternal, http.StatusInternalServerError, "No se pudo encolar la notificación")
	CodeDeliveryFailed = ErrRegistry.Register("DELIVERY_FAILED", errx.TypeExternal, http.StatusInternalServerError, "No se pudo entregar la notificación")
)

func ErrEnqueueFailed() *errx.Error {
	return ErrRegistry.New(CodeEnqueueFailed)
}

func ErrDeliveryFailed() *errx.Error {
	return ErrRegistry.New(CodeDeliveryFailed)
}
