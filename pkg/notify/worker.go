package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Abraxas-365/careerpath/pkg/iam/profile/profilesrv"
	"github.com/Abraxas-365/careerpath/pkg/logx"
	"github.com/Abraxas-365/careerpath/pkg/recruitment/candidate"
	"github.com/hibiken/asynq"
)

// NotificationWorker consume las tareas de notificación y envía los correos
// a los usuarios activos de HR
type NotificationWorker struct {
	users  *profilesrv.UserService
	mailer Mailer
}

// NewNotificationWorker crea un nuevo worker de notificaciones
func NewNotificationWorker(users *profilesrv.UserService, mailer Mailer) *NotificationWorker {
	return &NotificationWorker{
		users:  users,
		mailer: mailer,
	}
}

// Handler registra los handlers de tareas en un mux de asynq
func (w *NotificationWorker) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskCandidatePassed, w.handleCandidatePassed)
	return mux
}

func (w *NotificationWorker) handleCandidatePassed(ctx context.Context, task *asynq.Task) error {
	var notification candidate.PassedNotification
	if err := json.Unmarshal(task.Payload(), &notification); err != nil {
		return fmt.Errorf("decode candidate passed payload: %w", err)
	}

	recipients, err := w.users.HrOfficeEmails(ctx)
	if err != nil {
		return fmt.Errorf("resolve hr recipients: %w", err)
	}
	if len(recipients) == 0 {
		// Sin destinatarios no hay nada que reintentar
		logx.WithFields(logx.Fields{
			"candidate": notification.CandidateName,
		}).Warn("No active HR users to notify")
		return nil
	}

	subject := fmt.Sprintf("🎉 Candidate Ready for Offer: %s", notification.CandidateName)
	body := buildCandidatePassedBody(notification)

	if err := w.mailer.Send(ctx, recipients, subject, body); err != nil {
		return fmt.Errorf("send candidate passed email: %w", err)
	}

	logx.WithFields(logx.Fields{
		"candidate":  notification.CandidateName,
		"recipients": len(recipients),
	}).Info("HR notified about candidate ready for offer")

	return nil
}

func buildCandidatePassedBody(n candidate.PassedNotification) string {
	return fmt.Sprintf(`A candidate has successfully passed all interview stages and is ready to receive an offer.

Candidate Details
  Name:     %s
  Email:    %s
  Position: %s
  Role:     %s

Please log in to Career Path Manager to send an offer to this candidate.

This is an automated notification from Career Path Manager.`,
		n.CandidateName, n.CandidateEmail, n.ProcessPosition, n.ProcessRole)
}
