package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	motivationrpc "focuscraft/internal/modules/motivation/adapter/out/rpc"
	"focuscraft/internal/modules/motivation/domain"
	motivationout "focuscraft/internal/modules/motivation/port/out"
	apperrors "focuscraft/internal/platform/errors"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost launches a motivation provider binary per call via
// hashicorp/go-plugin. One-shot connections keep the provider process
// lifetime bounded by the request; the 30-second refresh cadence makes
// the spawn cost irrelevant.
type GRPCHost struct {
	binary string
}

func NewGRPCHost(binary string) motivationout.Provider {
	return &GRPCHost{binary: binary}
}

func (h *GRPCHost) Generate(ctx context.Context, req domain.Request) (domain.Message, error) {
	if h.binary == "" {
		return domain.Message{}, apperrors.ErrProviderNotConfigured
	}
	client, closeFn, err := h.connect()
	if err != nil {
		return domain.Message{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.Generate(callCtx, &motivationrpc.GenerateRequest{
		SessionProgress: req.SessionProgress,
		TimeRemaining:   req.TimeRemaining,
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.Message{}, domain.ErrProviderTimeout
		}
		return domain.Message{}, fmt.Errorf("generate message: %w", err)
	}
	return domain.Message{Text: response.Message}, nil
}

func (h *GRPCHost) connect() (motivationrpc.MotivatorClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  motivationrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          motivationrpc.PluginMap(nil),
		Cmd:              exec.Command(h.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider client: %w", err)
	}
	raw, err := rpcClient.Dispense(motivationrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider: %w", err)
	}
	typed, ok := raw.(motivationrpc.MotivatorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, defaultCallTimeout)
}
