package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sig-0/countryfacts/apperrors"
	"github.com/sig-0/countryfacts/render"
	"github.com/sig-0/countryfacts/storage/types"
)

// topGDPCount is the number of leaders shown on the summary image
const topGDPCount = 5

var (
	errUnableToFetchCountries = errors.New("unable to fetch countries")
	errUnableToFetchStats     = errors.New("unable to fetch stats")
	errUnableToRenderSummary  = errors.New("unable to render summary")
	errMissingName            = errors.New("missing country name")
)

func (s *Server) RefreshCountries(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.refresher.Refresh(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to refresh countries",
			"err", err,
		)

		writeCoreError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, &RefreshResponse{
		Message:        "countries data refreshed successfully",
		RefreshOutcome: outcome,
	})
}

func (s *Server) ListCountries(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		writeCoreError(w, err)

		return
	}

	page, err := s.storage.ListCountries(r.Context(), query)
	if err != nil {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			writeCoreError(w, err)

			return
		}

		s.logger.Debug(
			"unable to fetch countries",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchCountries)

		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) GetCountry(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, errMissingName)

		return
	}

	country, err := s.storage.GetCountry(r.Context(), name)
	if err != nil {
		s.logger.Debug(
			"unable to fetch country",
			"name", name,
			"err", err,
		)

		writeCoreError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, country)
}

func (s *Server) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, errMissingName)

		return
	}

	if err := s.storage.DeleteCountry(r.Context(), name); err != nil {
		s.logger.Debug(
			"unable to delete country",
			"name", name,
			"err", err,
		)

		writeCoreError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, &MessageResponse{
		Message: "country " + name + " deleted successfully",
	})
}

func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	stats, err := s.storage.Stats(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch stats",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchStats)

		return
	}

	writeJSON(w, http.StatusOK, &StatusResponse{
		TotalCountries:  stats.TotalCountries,
		LastRefreshedAt: stats.LastRefreshedAt,
	})
}

func (s *Server) SummaryImage(w http.ResponseWriter, r *http.Request) {
	stats, err := s.storage.Stats(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch stats",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchStats)

		return
	}

	topGDP, err := s.storage.TopCountriesByGDP(r.Context(), topGDPCount)
	if err != nil {
		s.logger.Debug(
			"unable to fetch top countries",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchStats)

		return
	}

	img, err := render.PNG(&render.Summary{
		Stats:  stats,
		TopGDP: topGDP,
	})
	if err != nil {
		s.logger.Error(
			"unable to render summary image",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToRenderSummary)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(img) //nolint:errcheck // Fine to ignore
}

// parseListQuery parses the filter / sort / pagination parameters
func parseListQuery(r *http.Request) (*types.ListQuery, error) {
	var (
		regionParam   = strings.TrimSpace(r.URL.Query().Get("region"))
		currencyParam = strings.TrimSpace(r.URL.Query().Get("currency"))
		sortParam     = strings.TrimSpace(r.URL.Query().Get("sort"))
		skipParam     = strings.TrimSpace(r.URL.Query().Get("skip"))
		limitParam    = strings.TrimSpace(r.URL.Query().Get("limit"))
	)

	sort, err := types.ParseSort(sortParam)
	if err != nil {
		return nil, err
	}

	query := &types.ListQuery{
		Sort: sort,
	}

	if regionParam != "" {
		query.Region = &regionParam
	}

	if currencyParam != "" {
		query.Currency = &currencyParam
	}

	if skipParam != "" {
		skip, err := strconv.ParseInt(skipParam, 10, 64)
		if err != nil {
			return nil, apperrors.NewValidation("skip", "must be an integer")
		}

		query.Skip = skip
	}

	if limitParam != "" {
		limit, err := strconv.ParseInt(limitParam, 10, 64)
		if err != nil {
			return nil, apperrors.NewValidation("limit", "must be an integer")
		}

		query.Limit = &limit
	}

	if err := query.Validate(); err != nil {
		return nil, err
	}

	return query, nil
}

// writeCoreError maps a typed core error to a consistent response
func writeCoreError(w http.ResponseWriter, err error) {
	var (
		validationErr  *apperrors.ValidationError
		notFoundErr    *apperrors.NotFoundError
		unavailableErr *apperrors.SourceUnavailableError
		persistenceErr *apperrors.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, &ErrorResponse{
			Error:  "validation failed",
			Field:  validationErr.Field,
			Reason: validationErr.Reason,
		})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, &ErrorResponse{
			Error: "country not found",
		})
	case errors.As(err, &unavailableErr):
		writeJSON(w, http.StatusServiceUnavailable, &ErrorResponse{
			Error:  "external data source unavailable",
			Source: unavailableErr.Source,
		})
	case errors.As(err, &persistenceErr):
		writeJSON(w, http.StatusInternalServerError, &ErrorResponse{
			Error: "unable to persist refresh",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, &ErrorResponse{
			Error: "internal server error",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, &ErrorResponse{
		Error: err.Error(),
	})
}
