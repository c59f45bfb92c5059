package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/christianvuerings/nakamura/connections"
	"github.com/christianvuerings/nakamura/errors"
	"github.com/christianvuerings/nakamura/logger"
	"github.com/christianvuerings/nakamura/related"
)

// feedResponse is the paginated search-results envelope for one feed run.
type feedResponse struct {
	Items   int              `json:"items"`
	Total   int              `json:"total"`
	Results []related.Record `json:"results"`
}

// HandleRelatedFeed assembles and returns the related-people feed for the
// requesting user.
// GET /api/related?user=<id>&items=<n>
func (s *Server) HandleRelatedFeed(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	requestID := uuid.NewString()
	start := time.Now()
	ctx := r.Context()

	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user parameter is required")
		return
	}

	items := s.cfg.Feed.ItemsPerPage
	if raw := r.URL.Query().Get("items"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "items must be a positive integer")
			return
		}
		items = parsed
	}

	connected, err := s.connections.ConnectedUsers(ctx, userID, connections.StateAccepted)
	if err != nil {
		s.logger.Errorw("Failed to load connected users",
			logger.FieldRequestID, requestID,
			logger.FieldUserID, userID,
			logger.FieldError, err,
		)
		writeError(w, http.StatusInternalServerError, "Failed to load connections")
		return
	}

	results, err := s.search.Related(ctx, userID, items)
	if err != nil {
		s.logger.Errorw("Failed to open candidate cursor",
			logger.FieldRequestID, requestID,
			logger.FieldUserID, userID,
			logger.FieldError, err,
		)
		writeError(w, http.StatusInternalServerError, "Failed to query candidates")
		return
	}
	// The cursor pins a pool connection until closed; assembly may stop
	// consuming it as soon as the quota is met
	defer results.Close()

	records, err := s.assembler.Assemble(ctx, userID, connected, results, items)
	if err != nil {
		switch {
		case errors.IsInvalidArgument(err):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Unknown user")
		default:
			s.logger.Errorw("Feed assembly failed",
				logger.FieldRequestID, requestID,
				logger.FieldUserID, userID,
				logger.FieldError, err,
			)
			writeError(w, http.StatusInternalServerError, "Feed assembly failed")
		}
		return
	}

	if records == nil {
		records = []related.Record{}
	}

	s.logger.Infow("Served related feed",
		logger.FieldRequestID, requestID,
		logger.FieldUserID, userID,
		logger.FieldCount, len(records),
		logger.FieldQuota, items,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	writeJSON(w, http.StatusOK, feedResponse{
		Items:   items,
		Total:   len(records),
		Results: records,
	})
}
