// Command quake fires the earthquake simulator once against the backend
// named by API_BASE_URL and prints the reply.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AchilleasB/safety-check/dashboard-service/internal/adapters/backend"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/config"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/domain"
	"github.com/AchilleasB/safety-check/dashboard-service/internal/core/services"
)

func main() {
	location := flag.String("location", string(domain.LocationTokyo), "tokyo or niigata")
	intensity := flag.Int("intensity", 3, "seismic intensity, 3 or 7")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	cfg, err := config.LoadTriggerConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := config.SetupLogger(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client := backend.NewClient(cfg.APIBaseURL, 0, logger)
	svc := services.NewEarthquakeService(client, logger, nil)

	req := domain.EarthquakeRequest{Location: domain.Location(*location), Intensity: *intensity}
	if err := svc.Trigger(ctx, req); err != nil {
		logger.Error().Err(err).Msg("Earthquake trigger failed")
		os.Exit(1)
	}

	fmt.Printf("%s: intensity %d earthquake triggered\n", domain.Location(*location).Name(), *intensity)
}
