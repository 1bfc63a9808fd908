/*
Package monitoring provides Prometheus metrics for the judge service.

It tracks HTTP traffic and evaluations: outcomes (passed, failed, or the
stage that aborted the run), evaluation latency, per-case results and safety
findings. Metrics live on a private registry exposed through Handler.

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	engine := evaluator.New(cfg, evaluator.WithObserver(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
