package main

import (
	"net/http"

	"github.com/huffgo/huffc/internal/devserver"
)

func newDevMux(hub *devserver.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	return mux
}

func serveMux(addr string, mux *http.ServeMux) error {
	return http.ListenAndServe(addr, mux)
}
