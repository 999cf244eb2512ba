// Package api exposes matching over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/cupid-matcher/internal/matching"
	"github.com/spigell/cupid-matcher/internal/profile"
	"github.com/spigell/cupid-matcher/internal/store"
)

// Matcher is the matching surface served by the handler.
type Matcher interface {
	FindMatch(ctx context.Context, requesterID, targetID string) (*profile.MatchedProfile, error)
	FindCompatibleMatches(ctx context.Context, requesterID string, includeLowMatches bool) ([]profile.MatchedProfile, error)
}

// ProfileStore reads and writes profiles for the profile routes.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*profile.Profile, error)
	PutProfile(ctx context.Context, p *profile.Profile) error
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type MatchesResponse struct {
	Count   int                      `json:"count"`
	Matches []profile.MatchedProfile `json:"matches"`
}

type Handler struct {
	matcher Matcher
	store   ProfileStore
	logger  *zap.Logger
	now     func() time.Time
}

func NewHandler(matcher Matcher, profiles ProfileStore, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		matcher: matcher,
		store:   profiles,
		logger:  log,
		now:     time.Now,
	}
}

// GetProfile handles GET /profiles/:id
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.store.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
			return
		}
		h.logger.Error("getting profile", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// PutProfile handles POST /profiles. The stored profile is returned with its id.
func (h *Handler) PutProfile(c *gin.Context) {
	var p profile.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := profile.Prepare(&p, h.now()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.store.PutProfile(c.Request.Context(), &p); err != nil {
		h.logger.Error("storing profile", zap.String("id", p.ID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "failed to store profile"})
		return
	}

	c.JSON(http.StatusCreated, p)
}

// FindMatch handles GET /profiles/:id/matches/:target
func (h *Handler) FindMatch(c *gin.Context) {
	match, err := h.matcher.FindMatch(c.Request.Context(), c.Param("id"), c.Param("target"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, match)
}

// FindCompatibleMatches handles GET /profiles/:id/matches?include_low=true
func (h *Handler) FindCompatibleMatches(c *gin.Context) {
	includeLow := false
	if raw := c.Query("include_low"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "include_low must be a boolean"})
			return
		}
		includeLow = v
	}

	matches, err := h.matcher.FindCompatibleMatches(c.Request.Context(), c.Param("id"), includeLow)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MatchesResponse{Count: len(matches), Matches: matches})
}

func (h *Handler) fail(c *gin.Context, err error) {
	kind := matching.KindOf(err)
	status := StatusFor(kind)
	if status >= http.StatusInternalServerError {
		h.logger.Error("matching request failed",
			zap.String("path", c.FullPath()),
			zap.Stringer("kind", kind),
			zap.Error(err),
		)
	}

	c.JSON(status, ErrorResponse{Error: err.Error(), Kind: kind.String()})
}

// StatusFor maps a matching error kind to an HTTP status code.
func StatusFor(kind matching.Kind) int {
	switch kind {
	case matching.KindNone:
		return http.StatusOK
	case matching.KindIncompleteProfile:
		return http.StatusUnprocessableEntity
	case matching.KindSelfMatch:
		return http.StatusBadRequest
	case matching.KindGenderMismatch, matching.KindAgeMismatch:
		return http.StatusConflict
	case matching.KindProfileNotFound, matching.KindNoEligibleCandidates, matching.KindNoHighConfidenceMatches:
		return http.StatusNotFound
	case matching.KindStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
