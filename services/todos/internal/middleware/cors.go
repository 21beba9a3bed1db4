package middleware

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// CORSMiddleware разрешает кросс-доменные запросы фронтенда.
// По умолчанию (origins пустой или "*") разрешён любой origin.
func CORSMiddleware(origins []string, log *logrus.Logger) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type"},
		Logger:         corsLogger{log: log},
		Debug:          log != nil && log.IsLevelEnabled(logrus.TraceLevel),
	})
	return c.Handler
}

// corsLogger направляет отладочный вывод rs/cors в logrus
type corsLogger struct {
	log *logrus.Logger
}

func (l corsLogger) Printf(format string, v ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.WithField("component", "cors").Tracef(format, v...)
}
