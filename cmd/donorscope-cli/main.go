package main

import (
	"context"
	"log/slog"

	"donorscope-backend/cmd/donorscope-cli/commands"
	"donorscope-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()

	telemetry.InitSlog(true)
	otel, err := telemetry.SetupFromEnv(ctx, "donorscope-cli")
	if err != nil {
		slog.Error("failed to setup telemetry", "err", err)
	}
	defer otel.Shutdown(ctx)

	commands.ExecuteContext(ctx)
}
