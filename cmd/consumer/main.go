package main

import (
	"context"
	"fmt"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/samber/do"
	"github.com/serroba/babyurl/internal/container"
	"github.com/serroba/babyurl/internal/messaging"
	"go.uber.org/zap"
)

// The consumer evicts cached associations as the server's sweeper reports
// them expired over the Redis stream. It takes the same options as the server.
func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		if err := options.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "invalid options:", err)
			os.Exit(2)
		}

		injector := do.New()
		do.ProvideValue(injector, options)
		container.LoggerPackage(injector)
		container.RedisPackage(injector)
		container.MessagingPackage(injector)
		container.SweeperPackage(injector)

		logger := do.MustInvoke[*zap.Logger](injector)

		var cancel context.CancelFunc

		hooks.OnStart(func() {
			group, err := do.InvokeNamed[*messaging.Group](injector, container.ConsumerWorkers)
			if err != nil {
				logger.Fatal("failed to build consumers", zap.Error(err))
			}

			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			if err := group.Start(ctx); err != nil {
				logger.Fatal("failed to start consumer group", zap.Error(err))
			}

			<-ctx.Done()
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			if cancel != nil {
				cancel()
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
			_ = logger.Sync()
		})
	})

	cli.Run()
}
