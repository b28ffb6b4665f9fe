package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
)

const HeaderConnectionID = "X-Connection-Id"

// ErrConnectionGone is returned when the client already hung up. Callers
// should drop the connection row.
var ErrConnectionGone = errors.New("websocket connection is gone")

// GatewayClient pushes frames to the sessions held by the API Gateway.
type GatewayClient interface {
	PostToConnection(ctx context.Context, connID string, data any) error
	DeleteConnection(ctx context.Context, connID string) error
}

type AWSGatewayClient struct {
	client *apigatewaymanagementapi.Client
}

// NewAWSGatewayClient targets the management endpoint of one stage, e.g.
// https://abc123.execute-api.sa-east-1.amazonaws.com/prod.
func NewAWSGatewayClient(ctx context.Context, endpoint, region string) (*AWSGatewayClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config for websocket gateway: %w", err)
	}

	client := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &AWSGatewayClient{client: client}, nil
}

func (g *AWSGatewayClient) PostToConnection(ctx context.Context, connID string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode frame for %s: %w", connID, err)
	}

	_, err = g.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
		ConnectionId: aws.String(connID),
		Data:         payload,
	})
	return mapGatewayError(err)
}

func (g *AWSGatewayClient) DeleteConnection(ctx context.Context, connID string) error {
	_, err := g.client.DeleteConnection(ctx, &apigatewaymanagementapi.DeleteConnectionInput{
		ConnectionId: aws.String(connID),
	})
	return mapGatewayError(err)
}

func mapGatewayError(err error) error {
	var gone *types.GoneException
	if errors.As(err, &gone) {
		return ErrConnectionGone
	}
	return err
}

// NoopGateway drops every frame. Used when no websocket endpoint is configured.
type NoopGateway struct{}

func (NoopGateway) PostToConnection(context.Context, string, any) error { return nil }

func (NoopGateway) DeleteConnection(context.Context, string) error { return nil }
