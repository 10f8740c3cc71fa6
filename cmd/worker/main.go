package main

import (
	"github.com/sirupsen/logrus"
	"github.com/skywardair/bookingdesk/internal/activities"
	"github.com/skywardair/bookingdesk/internal/config"
	"github.com/skywardair/bookingdesk/internal/upstream"
	"github.com/skywardair/bookingdesk/internal/workflows"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	v, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		logrus.Fatalf("Failed to parse config: %v", err)
	}

	logrus.WithField("host", cfg.Temporal.HostPort).Info("connecting to Temporal")
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		logrus.Fatalf("Failed to connect to Temporal: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.TicketPurchaseWorkflow)

	api := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	acts := activities.NewActivities(api)
	w.RegisterActivityWithOptions(acts.CreatePassenger, activity.RegisterOptions{Name: "CreatePassenger"})
	w.RegisterActivityWithOptions(acts.CreateTicket, activity.RegisterOptions{Name: "CreateTicket"})
	w.RegisterActivityWithOptions(acts.DeletePassenger, activity.RegisterOptions{Name: "DeletePassenger"})

	logrus.Info("starting worker")
	if err := w.Run(worker.InterruptCh()); err != nil {
		logrus.Fatalf("Worker failed: %v", err)
	}
}
