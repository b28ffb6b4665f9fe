package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/events"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/testutil"
	"qualiobra/cmd/internal/utils/apierror"
)

func TestDispatchDropsGoneConnections(t *testing.T) {
	env := newEnv(t)
	company := testutil.SeedCompany(t, env.db, "Construtora ABC")
	gateway := testutil.NewFakeGateway()
	connRepo := repository.NewConnectionRepository(env.db)
	ws := NewWebSocketService(connRepo, gateway)
	exp := time.Now().Add(time.Hour).Unix()

	requireOK(t, ws.RegisterConnection(company.AsInspector(), "conn-phone", exp))
	requireOK(t, ws.RegisterConnection(company.AsInspector(), "conn-tablet", exp))
	gateway.Gone["conn-tablet"] = true

	evt := &events.NotificationCreated{NotificationResponse: &contract.NotificationResponse{Title: "Inspeção concluída"}}
	delivered, err := ws.Dispatch(context.Background(), company.Inspector.ID, evt)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	conns, err := connRepo.FindByUserID(company.Inspector.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"conn-phone"}, conns)

	frame, ok := gateway.Posted["conn-phone"][0].(*contract.OutgoingSocketMessage)
	require.True(t, ok)
	assert.Equal(t, contract.EventNotificationCreated, frame.Type)
}

func TestRegisterConnectionNeedsTenantUser(t *testing.T) {
	env := newEnv(t)
	ws := NewWebSocketService(repository.NewConnectionRepository(env.db), testutil.NewFakeGateway())
	op := testutil.SeedOperator(t, env.db, "ops@qualiobra.test")

	apierr := ws.RegisterConnection(&entity.AuthContext{SystemUser: op}, "conn-ops", time.Now().Unix())
	assert.Equal(t, apierror.TenantOnlyError, apierr)
}

func TestPingRefreshesHeartbeat(t *testing.T) {
	env := newEnv(t)
	company := testutil.SeedCompany(t, env.db, "Construtora ABC")
	gateway := testutil.NewFakeGateway()
	ws := NewWebSocketService(repository.NewConnectionRepository(env.db), gateway)

	requireOK(t, ws.RegisterConnection(company.AsAdmin(), "conn-1", time.Now().Add(time.Hour).Unix()))
	ws.HandleMessage(&contract.IncomingSocketMessage{Type: contract.EventPing}, "conn-1")

	assert.Eventually(t, func() bool {
		return gateway.PostedCount("conn-1") == 1
	}, 2*time.Second, 20*time.Millisecond)
}
