package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	host     string
	port     int
	rTimeout time.Duration
	wTimeout time.Duration
}

func (s *Server) Addr() string {
	return s.host + ":" + strconv.Itoa(s.port)
}

func (s *Server) Run(corpus *Corpus) {

	handler := NewHandler(corpus)

	router := chi.NewRouter()
	router.Get("/search", handler.DoSearch)
	router.Get("/documents", handler.DoDocuments)
	router.Get("/tree/{document}", handler.DoTree)

	httpServer := &http.Server{
		Addr:         s.Addr(),
		Handler:      router,
		ReadTimeout:  s.rTimeout,
		WriteTimeout: s.wTimeout,
	}

	go s.start(httpServer)
}

func (s *Server) start(hs *http.Server) {

	logger.Info("Start http listener on %s", s.Addr())
	err := hs.ListenAndServe()
	if err != nil {
		logger.Error("Start http listener on %s failed:%s", s.Addr(), err.Error())
	}

}
