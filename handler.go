package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type SearchHandler struct {
	corpus *Corpus
	cache  Cache
	audit  AuditLogger
}

func NewHandler(corpus *Corpus) *SearchHandler {

	var (
		cache Cache
		audit AuditLogger
	)

	cacheConfig := settings.Cache
	switch cacheConfig.Backend {
	case "memory":
		cache = NewMemoryCache(time.Duration(cacheConfig.Expire)*time.Second, cacheConfig.Maxcount)
	case "memcached":
		cache = NewMemcachedCache(cacheConfig.Memcached, int32(cacheConfig.Expire))
	case "redis":
		cache = NewRedisCache(settings.Redis, int64(cacheConfig.Expire))
	default:
		logger.Error("Invalid cache backend %s", cacheConfig.Backend)
		panic("Invalid cache backend")
	}

	if settings.Audit.Enable {
		switch settings.Audit.Backend {
		case "redis":
			audit = NewRedisAuditLogger(settings.Redis, settings.Audit.Expire)
		case "postgresql":
			audit = NewPostgresqlAuditLogger(settings.Pgsql, settings.Audit.Expire)
		default:
			logger.Error("Invalid audit backend %s", settings.Audit.Backend)
			panic("Invalid audit backend")
		}
	}

	return &SearchHandler{corpus, cache, audit}
}

func (h *SearchHandler) DoSearch(w http.ResponseWriter, r *http.Request) {
	pattern := r.URL.Query().Get("q")
	if pattern == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	logger.Debug("Search: %s", pattern)

	key := KeyGen(pattern)
	if result, err := h.cache.Get(key); err == nil {
		logger.Debug("%s hit cache", pattern)
		h.auditQuery(r, result)
		writeJSON(w, http.StatusOK, result)
		return
	} else {
		logger.Debug("%s didn't hit cache: %s", pattern, err)
	}

	result := h.corpus.Search(pattern)

	if err := h.cache.Set(key, result); err != nil {
		logger.Debug("Set %s cache failed: %s", pattern, err.Error())
	}

	h.auditQuery(r, result)
	writeJSON(w, http.StatusOK, result)
}

func (h *SearchHandler) DoDocuments(w http.ResponseWriter, r *http.Request) {
	type docInfo struct {
		Name   string `json:"name"`
		Size   int    `json:"size"`
		Leaves int    `json:"leaves"`
	}

	docs := h.corpus.Documents()
	infos := make([]docInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, docInfo{
			Name:   doc.Name,
			Size:   doc.Size,
			Leaves: doc.Tree.LeafCount(),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *SearchHandler) DoTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "document")
	doc, ok := h.corpus.Document(name)
	if !ok {
		writeError(w, http.StatusNotFound, "document not indexed: "+name)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(doc.Tree.Dump()))
}

func (h *SearchHandler) auditQuery(r *http.Request, result *SearchResult) {
	if h.audit == nil {
		return
	}
	h.audit.Write(NewAuditMessage(remoteIP(r.RemoteAddr), result.Pattern, len(result.Hits)))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Can't encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, mesg string) {
	writeJSON(w, status, map[string]string{"error": mesg})
}
