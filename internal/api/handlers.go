// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/m3ucat/internal/catalog"
	"github.com/ManuGH/m3ucat/internal/config"
	"github.com/ManuGH/m3ucat/internal/log"
	"github.com/ManuGH/m3ucat/internal/m3u"
	"github.com/ManuGH/m3ucat/internal/playlist"
	"github.com/ManuGH/m3ucat/internal/source"
)

// SourceSummary describes one loaded catalog.
type SourceSummary struct {
	Name          string `json:"name"`
	Title         string `json:"title,omitempty"`
	TotalChannels int    `json:"totalChannels"`
	Categories    int    `json:"categories"`
	Favorites     int    `json:"favorites"`
}

// ChannelList is the response of the channel listing.
type ChannelList struct {
	Source   string        `json:"source"`
	Count    int           `json:"count"`
	Channels []m3u.Channel `json:"channels"`
}

type loadRequest struct {
	URL string `json:"url"`
}

func summarize(name string, cat catalog.Catalog) SourceSummary {
	cats := 0
	for _, c := range cat.Categories {
		if c.ID != catalog.AllID {
			cats++
		}
	}
	return SourceSummary{
		Name:          name,
		Title:         cat.Metadata.Title,
		TotalChannels: cat.TotalChannels,
		Categories:    cats,
		Favorites:     len(cat.Favorites()),
	}
}

func (s *Server) handleListSources(w http.ResponseWriter, _ *http.Request) {
	names := s.store.Names()
	out := make([]SourceSummary, 0, len(names))
	for _, name := range names {
		if cat, ok := s.store.Get(name); ok {
			out = append(out, summarize(name, cat))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// catalogFor resolves the {source} URL parameter, writing a 404 when the
// source has no catalog.
func (s *Server) catalogFor(w http.ResponseWriter, r *http.Request) (string, catalog.Catalog, bool) {
	name := chi.URLParam(r, "source")
	cat, ok := s.store.Get(name)
	if !ok {
		writeNotFound(w, "unknown source "+strconv.Quote(name))
		return name, catalog.Catalog{}, false
	}
	return name, cat, true
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	name, cat, ok := s.catalogFor(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	favorites := false
	if raw := q.Get("favorites"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeBadRequest(w, "favorites must be a boolean")
			return
		}
		favorites = v
	}

	channels := cat.Filter(catalog.Filter{
		Category:      q.Get("category"),
		Query:         q.Get("q"),
		FavoritesOnly: favorites,
	})
	writeJSON(w, http.StatusOK, ChannelList{Source: name, Count: len(channels), Channels: channels})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	_, cat, ok := s.catalogFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cat.Categories)
}

func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	_, cat, ok := s.catalogFor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	ch, ok := cat.Channel(id)
	if !ok {
		writeNotFound(w, "unknown channel "+strconv.Quote(id))
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "source")
	id := chi.URLParam(r, "id")
	cat, ok := s.store.ToggleFavorite(name, id)
	if !ok {
		writeNotFound(w, "unknown source or channel")
		return
	}
	ch, _ := cat.Channel(id)

	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Info().
		Str(log.FieldEvent, "api.favorite_toggled").
		Str(log.FieldSource, name).
		Str(log.FieldChannelID, id).
		Bool("favorite", ch.IsFavorite).
		Msg("favorite toggled")
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name, cat, ok := s.catalogFor(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name + ".m3u"}))
	if err := playlist.WriteM3U(w, cat); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Warn().Err(err).Str(log.FieldEvent, "api.export_failed").Msg("write playlist response")
	}
}

// sourceParam validates the {source} parameter of a load endpoint.
func sourceParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "source")
	if !config.ValidSourceName(name) {
		writeBadRequest(w, "invalid source name "+strconv.Quote(name))
		return "", false
	}
	return name, true
}

// configured reports whether name is one of the sources from the config.
func (s *Server) configured(name string) bool {
	return slices.ContainsFunc(s.cfg.Sources, func(src config.SourceConfig) bool { return src.Name == name })
}

// loadTarget validates the {source} parameter of a load endpoint and turns
// away a new name before any work is done once the source limit is reached.
func (s *Server) loadTarget(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, ok := sourceParam(w, r)
	if !ok {
		return "", false
	}
	if s.configured(name) || s.store.Has(name) || s.store.Len() < s.cfg.API.MaxSources {
		return name, true
	}
	writeLoadError(w, r, fmt.Errorf("%w: %d sources loaded", source.ErrSourceLimit, s.cfg.API.MaxSources))
	return "", false
}

// publish stores a catalog loaded through the API. Configured sources are
// always accepted; other names count against the source limit.
func (s *Server) publish(ctx context.Context, name string, cat catalog.Catalog) error {
	if s.configured(name) {
		s.loader.Publish(ctx, name, cat)
		return nil
	}
	return s.loader.PublishBounded(ctx, name, cat, s.cfg.API.MaxSources)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	name, ok := s.loadTarget(w, r)
	if !ok {
		return
	}

	var req loadRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxLoadBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeBadRequest(w, "url is required")
		return
	}

	ctx := log.ContextWithSource(r.Context(), name)
	cat, err := s.loader.LoadRemote(ctx, req.URL)
	if err != nil {
		writeLoadError(w, r, err)
		return
	}
	if err := s.publish(ctx, name, cat); err != nil {
		writeLoadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(name, cat))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	name, ok := s.loadTarget(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.API.MaxUploadBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		writeBadRequest(w, "expected multipart/form-data body")
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			writeBadRequest(w, `missing multipart field "file"`)
			return
		}
		if err != nil {
			writeBadRequest(w, "malformed multipart body: "+err.Error())
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		ctx := log.ContextWithSource(r.Context(), name)
		cat, err := s.loader.LoadFile(ctx, part.FileName(), part)
		_ = part.Close()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeProblem(w, http.StatusRequestEntityTooLarge, "too_large", err.Error())
				return
			}
			writeLoadError(w, r, err)
			return
		}
		if err := s.publish(ctx, name, cat); err != nil {
			writeLoadError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summarize(name, cat))
		return
	}
}
