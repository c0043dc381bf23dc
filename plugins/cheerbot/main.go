package main

import (
	"context"
	"math/rand"

	"github.com/hashicorp/go-plugin"

	motivatorrpc "focuscraft/internal/modules/motivation/adapter/out/rpc"
)

// cheerbot is the reference motivation provider. It picks a message
// matched to how far along the session is: warming up below 50%, mid
// push between 50% and 80%, final stretch at 80% and above.
type server struct{}

var (
	earlyMessages = []string{
		"Settle in. The first minutes are the hardest.",
		"One thing at a time. You chose this session for a reason.",
		"Distractions can wait. They always do.",
	}
	midMessages = []string{
		"Halfway territory. Momentum is on your side now.",
		"Solid pace. Keep the streak going.",
		"You're deeper in than most people ever get.",
	}
	lateMessages = []string{
		"Final stretch. Finish strong and collect your coins.",
		"Almost there. Don't trade the last minutes away.",
		"The reward store is waiting on the other side.",
	}
)

func (s *server) Generate(_ context.Context, in *motivatorrpc.GenerateRequest) (*motivatorrpc.GenerateResponse, error) {
	pool := earlyMessages
	switch {
	case in.SessionProgress >= 80:
		pool = lateMessages
	case in.SessionProgress >= 50:
		pool = midMessages
	}
	return &motivatorrpc.GenerateResponse{Message: pool[rand.Intn(len(pool))]}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: motivatorrpc.HandshakeConfig,
		Plugins:         motivatorrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
