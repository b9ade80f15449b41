package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/akolanti/LessonIndexer/internal/adapter"
	"github.com/akolanti/LessonIndexer/internal/adapter/utils"
	"github.com/akolanti/LessonIndexer/internal/api"
	"github.com/akolanti/LessonIndexer/internal/config"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

var logRH *logger_i.Logger

type newRunData struct {
	id         string
	traceId    string
	containers []string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// StartIndexRun accepts an (optionally empty) request body, queues a new
// indexing run and returns its id for status polling.
func StartIndexRun(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.IndexRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the index handler reader :", "error", err)
			}
		}(request.Body)

		// An empty body means index everything.
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil && err != io.EOF {
			logRH.Warn("Bad Index Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		newRun := newRunData{
			id:         utils.GetNewUUID(),
			traceId:    request.Context().Value(config.TRACE_ID_KEY).(string),
			containers: requestData.Containers,
		}
		CreateNewRun(newRun)
		res := adapter.ToInitRunResponse(newRun.id)
		writeJsonResponse(w, http.StatusAccepted, res)
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetRunStatusHandler retrieves the current status of one run by id.
func GetRunStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Run not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}
