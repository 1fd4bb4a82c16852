// Package server wraps http.Server with listener-based startup, graceful
// shutdown and errgroup-friendly lifecycle management.
//
// Write timeouts default to zero so that event streams and websocket
// sessions are not cut by the server.
//
//	srv := server.New(":8080", server.WithLogger(logger))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	if err := g.Wait(); err != nil {
//		log.Fatal(err)
//	}
//
// Configuration may come from the environment through Config and NewFromConfig.
package server
