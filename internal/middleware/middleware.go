package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/internal/handlers"
	"github.com/akolanti/LessonIndexer/internal/metrics"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var (
	authToken    string
	noAuthBypass bool
)

// Init wires the auth settings; components never read the environment
// themselves.
func Init(cfg *config.Config) {
	authToken = cfg.AuthToken
	noAuthBypass = cfg.NoAuthBypass
}

var GetHandler = Wrap(handlers.GetHandler)

var StartIndexRun = Wrap(handlers.StartIndexRun)
var GetRunStatusHandler = Wrap(handlers.GetRunStatusHandler)
var SearchHandler = Wrap(handlers.SearchHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}
func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop here if rate limit fails
	}

	return re
}
