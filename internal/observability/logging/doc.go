// Package logging builds the process logger and carries request-scoped
// loggers through context.
//
//	logger := logging.NewLogger(os.Stdout, cfg.LogLevel)
//	slog.SetDefault(logger)
//
//	func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    log := logging.FromContext(r.Context())
//	    log.Info("article created", slog.Int64("article_id", id))
//	}
package logging
