package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/events"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/testutil"
)

type feedFixture struct {
	*vilaNova
	gateway       *testutil.FakeGateway
	mailer        *testutil.FakeMailer
	ws            *WebSocketService
	notifications *repository.DefaultNotificationRepository
	dispatcher    *NotificationDispatcher
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	v := newVilaNova(t)
	gateway := testutil.NewFakeGateway()
	mailer := &testutil.FakeMailer{}
	ws := NewWebSocketService(repository.NewConnectionRepository(v.env.db), gateway)
	notifications := repository.NewNotificationRepository(v.env.db)

	return &feedFixture{
		vilaNova:      v,
		gateway:       gateway,
		mailer:        mailer,
		ws:            ws,
		notifications: notifications,
		dispatcher:    NewNotificationDispatcher(notifications, v.env.users, v.env.inspections, ws, mailer, "https://app.qualiobra.test"),
	}
}

func TestInspectionCompletedNotifiesManagers(t *testing.T) {
	f := newFeedFixture(t)
	requireOK(t, f.ws.RegisterConnection(f.company.AsSupervisor(), "conn-sup", time.Now().Add(time.Hour).Unix()))

	f.dispatcher.InspectionCompleted(context.Background(), &events.InspectionCompleted{
		TenantID:     f.company.Tenant.ID,
		InspectionID: 77,
		Month:        "2026-03",
		Result:       entity.ResultApprovedWithRestrictions,
		IssueIDs:     []int64{1},
	})

	for _, user := range []*entity.User{f.company.Admin, f.company.Supervisor} {
		feed, err := f.notifications.FindAll(f.company.Tenant.ID, user.ID, true)
		require.NoError(t, err)
		require.Len(t, feed, 1, "feed of %s", user.Email)
		assert.Equal(t, "https://app.qualiobra.test/inspections/77", feed[0].Link)
		assert.Contains(t, feed[0].Message, "1 open issue")
	}

	feed, err := f.notifications.FindAll(f.company.Tenant.ID, f.company.Inspector.ID, false)
	require.NoError(t, err)
	assert.Empty(t, feed)

	assert.Equal(t, 2, f.mailer.Count())
	assert.Len(t, f.gateway.Posted["conn-sup"], 1)
}

func TestIssueResolvedNotifiesInspector(t *testing.T) {
	f := newFeedFixture(t)
	issue := raiseIssue(t, f.vilaNova)

	evt := &events.IssueResolved{
		TenantID:     f.company.Tenant.ID,
		IssueID:      issue.ID,
		InspectionID: issue.InspectionID,
		Title:        issue.Title,
	}

	t.Run("resolved by the inspector", func(t *testing.T) {
		evt.ResolvedByID = f.company.Inspector.ID
		f.dispatcher.IssueResolved(context.Background(), evt)
		assert.Zero(t, f.mailer.Count())
	})

	t.Run("resolved by someone else", func(t *testing.T) {
		evt.ResolvedByID = f.company.Supervisor.ID
		f.dispatcher.IssueResolved(context.Background(), evt)

		feed, err := f.notifications.FindAll(f.company.Tenant.ID, f.company.Inspector.ID, true)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Contains(t, feed[0].Message, issue.Title)
		require.Equal(t, 1, f.mailer.Count())
		assert.Equal(t, f.company.Inspector.Email, f.mailer.Sent[0].To)
	})
}

func TestNotificationFeed(t *testing.T) {
	f := newFeedFixture(t)
	svc := NewNotificationService(f.notifications)
	admin := f.company.AsAdmin()

	f.dispatcher.InspectionCompleted(context.Background(), &events.InspectionCompleted{
		TenantID:     f.company.Tenant.ID,
		InspectionID: 1,
		Month:        "2026-03",
		Result:       entity.ResultApproved,
	})
	f.dispatcher.InspectionCompleted(context.Background(), &events.InspectionCompleted{
		TenantID:     f.company.Tenant.ID,
		InspectionID: 2,
		Month:        "2026-03",
		Result:       entity.ResultApproved,
	})

	count, apierr := svc.CountUnread(admin)
	requireOK(t, apierr)
	assert.Equal(t, int64(2), count.Unread)

	feed, apierr := svc.GetNotifications(admin, false)
	requireOK(t, apierr)
	require.Len(t, feed, 2)

	requireOK(t, svc.MarkRead(admin, feed[0].ID))

	t.Run("other users cannot mark it", func(t *testing.T) {
		supFeed, apierr := svc.GetNotifications(f.company.AsSupervisor(), false)
		requireOK(t, apierr)
		require.Len(t, supFeed, 2)

		requireStatus(t, http.StatusNotFound, svc.MarkRead(f.company.AsSupervisor(), feed[1].ID))
	})

	unread, apierr := svc.GetNotifications(admin, true)
	requireOK(t, apierr)
	assert.Len(t, unread, 1)

	count, apierr = svc.MarkAllRead(admin)
	requireOK(t, apierr)
	assert.Zero(t, count.Unread)
}

func TestSuspendTenantClosesSessions(t *testing.T) {
	f := newFeedFixture(t)
	svc := NewTenantService(f.env.tenants, f.ws, f.env.s3, f.env.validate)
	op := testutil.SeedOperator(t, f.env.db, "ops@qualiobra.test")
	exp := time.Now().Add(time.Hour).Unix()

	requireOK(t, f.ws.RegisterConnection(f.company.AsAdmin(), "conn-a", exp))
	requireOK(t, f.ws.RegisterConnection(f.company.AsInspector(), "conn-b", exp))

	_, apierr := svc.SetStatus(f.company.AsAdmin(), f.company.Tenant.ID, &contract.SetTenantStatusRequest{Status: "SUSPENDED"})
	requireStatus(t, http.StatusForbidden, apierr)

	resp, apierr := svc.SetStatus(&entity.AuthContext{SystemUser: op}, f.company.Tenant.ID, &contract.SetTenantStatusRequest{Status: "SUSPENDED"})
	requireOK(t, apierr)
	assert.Equal(t, string(entity.TenantSuspended), resp.Status)

	assert.Eventually(t, func() bool {
		return len(f.gateway.DeletedConns()) == 2
	}, 2*time.Second, 20*time.Millisecond)

	kill, ok := f.gateway.Posted["conn-a"][0].(*contract.OutgoingSocketMessage)
	require.True(t, ok)
	assert.Equal(t, contract.EventConnectionKill, kill.Type)
}
