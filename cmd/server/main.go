package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tistolabs/ruleta-overlay/internal/broadcast"
	"github.com/tistolabs/ruleta-overlay/internal/env"
	"github.com/tistolabs/ruleta-overlay/internal/localdb"
	"github.com/tistolabs/ruleta-overlay/internal/registry"
	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"github.com/tistolabs/ruleta-overlay/internal/shared/paths"
	"github.com/tistolabs/ruleta-overlay/internal/types"
	"github.com/tistolabs/ruleta-overlay/internal/version"
	"github.com/tistolabs/ruleta-overlay/internal/webserver"
	"github.com/tistolabs/ruleta-overlay/internal/wheel"
	"go.uber.org/zap"
)

func main() {
	logger.Init(false)
	defer logger.Sync()

	logger.Info("Starting ruleta-overlay server", zap.String("version", version.String()))

	if err := paths.EnsureDataDirs(); err != nil {
		logger.Fatal("Failed to ensure data directories", zap.Error(err))
	}

	if _, err := localdb.SetupDB(paths.GetDBPath()); err != nil {
		logger.Fatal("Failed to setup database", zap.Error(err))
	}

	env.LoadEnv()
	if env.Value.DebugMode {
		logger.Init(true)
		logger.Info("Debug mode enabled")
	}

	segments, err := localdb.GetSegments()
	if err != nil {
		logger.Fatal("Failed to load segments", zap.Error(err))
	}
	logger.Info("Loaded wheel segments", zap.Int("count", len(segments)))

	mirror := registry.NewMirror()

	surface := wheel.NewOverlaySurface(env.Value.SpinDuration)
	machine := wheel.NewMachine(surface, broadcast.Send)
	machine.Start()

	// Every accepted segment change reaches the spin machine and the
	// connected overlays through the mirror.
	mirror.OnChange(func(segs []types.Segment) {
		machine.UpdateSegments(segs)
		broadcast.Send("segments-updated", segs)
	})
	mirror.Replace(segments)

	committer := func(segs []types.Segment) ([]types.Segment, error) {
		normalized, err := registry.Normalize(segs)
		if err != nil {
			return nil, err
		}
		if err := localdb.ReplaceSegments(normalized); err != nil {
			return nil, fmt.Errorf("failed to persist segments: %w", err)
		}
		return normalized, nil
	}
	session := registry.NewSession(mirror, committer)

	webserver.Setup(machine, mirror, session, committer)

	port := env.Value.ServerPort
	if err := webserver.StartWebServer(port); err != nil {
		logger.Fatal("Failed to start web server", zap.Error(err))
	}

	logger.Info("Server started",
		zap.Int("port", port),
		zap.String("webhook", fmt.Sprintf("http://localhost:%d/webhook/tikfinity", port)),
		zap.String("websocket", fmt.Sprintf("ws://localhost:%d/ws", port)))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")

	machine.Stop()
	webserver.Shutdown()

	logger.Info("Shutdown complete")
}
