// Package logging builds the service's zap logger.
//
// Production mode writes JSON lines; development mode writes colored console
// output at debug level. Logs go to stderr so the judge CLI can keep stdout
// for results.
//
//	logger, err := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging
