package main

import (
	_ "embed"
	"html/template"
	"net"
	"net/http"
	"os"

	"github.com/tomz197/hearts/internal/config"
	gameconfig "github.com/tomz197/hearts/internal/loop/config"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").Parse(htmlPage))

// pageData fills the landing page.
type pageData struct {
	SSHHost  string
	SSHPort  string
	Duration int
	Penalty  int
}

func main() {
	envErr := config.LoadDotEnv()
	logger := config.NewLogger(os.Stderr, config.GetEnv("HEARTS_LOG_LEVEL", "info"))
	if err := envErr; err != nil {
		logger.Fatal("load env", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	tuning := gameconfig.Defaults()
	data := pageData{
		SSHHost:  config.GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
		SSHPort:  config.GetEnv("SSH_DISPLAY_PORT", "2222"),
		Duration: tuning.Duration,
		Penalty:  tuning.MissPenalty,
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			logger.Error("render page", "err", err)
		}
	})

	addr := net.JoinHostPort(host, port)
	logger.Info("starting web server", "addr", "http://"+addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
