// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

/*
Package supervisor provides process supervision for Vidrec using suture v4.

Long-running services are organized into a two-layer tree:

	RootSupervisor ("vidrec")
	├── DataSupervisor ("data-layer")
	│   └── MaintenanceService (if MAINTENANCE_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's failure decay and backoff.
Supervisor events (service panics, terminations, backoff) are logged through
sutureslog, which writes to zerolog via logging.NewSlogHandler.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

After Serve returns, UnstoppedServiceReport lists services that ignored
cancellation past the shutdown timeout.
*/
package supervisor
