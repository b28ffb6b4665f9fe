package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"

	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/events"
	"qualiobra/cmd/internal/infrastructure/aws/mail"
	"qualiobra/cmd/internal/metrics"
)

var emailTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>{{.Title}}</h2>
  <p>Hi {{.Name}},</p>
  <p>{{.Message}}</p>
  {{if .Link}}<p><a href="{{.Link}}">Open in QualiObra</a></p>{{end}}
</body>
</html>`))

type emailData struct {
	Name    string
	Title   string
	Message string
	Link    string
}

// message is one notification about to be fanned out to its recipients.
type message struct {
	tenantID int64
	title    string
	text     string
	link     string
}

// NotificationDispatcher turns domain events into feed rows, websocket pushes
// and e-mails. Every channel is best-effort: failures are logged and counted,
// never retried, and never reach the mutation that emitted the event.
type NotificationDispatcher struct {
	NotificationRepo NotificationRepository
	UserRepo         UserRepository
	InspectionRepo   InspectionRepository
	WSService        *WebSocketService
	Mailer           mail.Mailer
	AppURL           string
}

func NewNotificationDispatcher(
	notificationRepo NotificationRepository,
	userRepo UserRepository,
	inspectionRepo InspectionRepository,
	wsService *WebSocketService,
	mailer mail.Mailer,
	appURL string,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		InspectionRepo:   inspectionRepo,
		WSService:        wsService,
		Mailer:           mailer,
		AppURL:           appURL,
	}
}

// InspectionCompleted notifies the active admins and supervisors of the tenant.
func (d *NotificationDispatcher) InspectionCompleted(ctx context.Context, evt *events.InspectionCompleted) {
	recipients, err := d.UserRepo.FindActiveByRoles(evt.TenantID, entity.RoleAdmin, entity.RoleSupervisor)
	if err != nil {
		log.Errorf("failed to fetch recipients for inspection %d: %v", evt.InspectionID, err)
		return
	}

	text := fmt.Sprintf("Inspection of %s finished as %s", evt.Month, evt.Result)
	if n := len(evt.IssueIDs); n > 0 {
		text += fmt.Sprintf(" with %d open issue(s)", n)
	}

	d.deliver(ctx, recipients, &message{
		tenantID: evt.TenantID,
		title:    "Inspection completed",
		text:     text,
		link:     d.link("inspections", evt.InspectionID),
	})
}

// IssueResolved notifies the inspector of the inspection the issue came from,
// unless they resolved it themselves.
func (d *NotificationDispatcher) IssueResolved(ctx context.Context, evt *events.IssueResolved) {
	insp, err := d.InspectionRepo.FindByID(evt.TenantID, evt.InspectionID)
	if err != nil || insp == nil {
		log.Errorf("failed to find inspection %d of resolved issue %d: %v", evt.InspectionID, evt.IssueID, err)
		return
	}

	if insp.InspectorID == evt.ResolvedByID {
		return
	}

	inspector, err := d.UserRepo.FindByID(evt.TenantID, insp.InspectorID)
	if err != nil {
		log.Errorf("failed to find inspector %d: %v", insp.InspectorID, err)
		return
	}

	if inspector == nil || !inspector.Active {
		return
	}

	d.deliver(ctx, []*entity.User{inspector}, &message{
		tenantID: evt.TenantID,
		title:    "Issue resolved",
		text:     fmt.Sprintf("The issue \"%s\" has been resolved", evt.Title),
		link:     d.link("issues", evt.IssueID),
	})
}

func (d *NotificationDispatcher) deliver(ctx context.Context, recipients []*entity.User, msg *message) {
	if len(recipients) == 0 {
		return
	}

	rows := make([]*entity.Notification, len(recipients))
	for i, user := range recipients {
		rows[i] = &entity.Notification{
			TenantID: msg.tenantID,
			UserID:   user.ID,
			Title:    msg.title,
			Message:  msg.text,
			Link:     msg.link,
		}
	}

	err := d.NotificationRepo.CreateBatch(rows)
	metrics.Delivery(metrics.ChannelFeed, err)
	if err != nil {
		log.Errorf("failed to store %d notification(s) for tenant %d: %v", len(rows), msg.tenantID, err)
		return
	}

	for i, user := range recipients {
		evt := &events.NotificationCreated{NotificationResponse: toNotificationResponse(rows[i])}
		_, err = d.WSService.Dispatch(ctx, user.ID, evt)
		metrics.Delivery(metrics.ChannelWebSocket, err)
		if err != nil {
			log.Warnf("failed to push notification %d to user %d: %v", rows[i].ID, user.ID, err)
		}

		d.email(ctx, user, msg)
	}
}

func (d *NotificationDispatcher) email(ctx context.Context, user *entity.User, msg *message) {
	var body bytes.Buffer
	data := &emailData{Name: user.Name, Title: msg.title, Message: msg.text, Link: msg.link}
	if err := emailTemplate.Execute(&body, data); err != nil {
		log.Errorf("failed to render notification e-mail: %v", err)
		return
	}

	err := d.Mailer.Send(ctx, user.Email, msg.title, body.String())
	metrics.Delivery(metrics.ChannelEmail, err)
	if err != nil {
		log.Warnf("failed to e-mail %s: %v", user.Email, err)
	}
}

func (d *NotificationDispatcher) link(resource string, id int64) string {
	if d.AppURL == "" {
		return ""
	}
	return d.AppURL + "/" + resource + "/" + strconv.FormatInt(id, 10)
}
