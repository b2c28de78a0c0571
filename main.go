package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pstuifzand/tui-listbind/internal/app"
	"github.com/pstuifzand/tui-listbind/internal/config"
	"github.com/pstuifzand/tui-listbind/internal/metrics"
	"github.com/pstuifzand/tui-listbind/internal/socket"
	"github.com/pstuifzand/tui-listbind/internal/theme"
)

func main() {
	debug := flag.Bool("debug", false, "Log debug messages, including every list update")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address (e.g. :9100)")
	addRow := flag.String("add", "", "Add a row to a running listbind instance")
	section := flag.String("section", "", "Section for -add (ID or header, default: first section)")
	tags := flag.String("tags", "", "Comma separated tags for -add")
	removeRow := flag.String("remove", "", "Remove the row with this key from a running instance")
	list := flag.Bool("list", false, "List the rows of a running instance")
	policy := flag.String("policy", "", "Override the re-entrancy policy for this session (queue or reject)")
	animations := flag.String("animations", "", "Turn row animations on or off for this session")
	initConfig := flag.Bool("init-config", false, "Write the default config file and exit")
	flag.Parse()

	switch {
	case *addRow != "":
		exitOnError(sendAddRow(*addRow, *section, splitTags(*tags)))
		fmt.Println("Row added")
		return
	case *removeRow != "":
		exitOnError(sendRemoveRow(*removeRow))
		fmt.Println("Row removed")
		return
	case *list:
		exitOnError(printRows())
		return
	case *initConfig:
		exitOnError(config.Default().Save())
		fmt.Println("Config written")
		return
	}

	logFile, err := os.Create("listbind.log")
	exitOnError(err)
	defer logFile.Close()

	log := logrus.New()
	log.SetOutput(logFile)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	exitOnError(err)
	if *policy != "" {
		cfg.Set("reentrancy", *policy)
	}
	if *animations != "" {
		cfg.Set("animations", *animations)
	}
	log.WithField("settings", cfg.GetAll()).Debug("config loaded")

	var collectors *metrics.Collectors
	if *metricsAddr != "" {
		collectors = metrics.New()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	var filePath string
	if args := flag.Args(); len(args) > 0 {
		filePath = args[0]
	}

	application, err := app.New(app.Options{
		FilePath: filePath,
		Config:   cfg,
		Theme:    theme.LoadThemeOrDefault(cfg.Theme),
		Log:      log,
		Metrics:  collectors,
		Socket:   true,
	})
	exitOnError(err)

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// connect finds a running listbind instance and opens a client to it
func connect() (*socket.Client, error) {
	socketPath, _, err := socket.FindRunningInstance()
	if err != nil {
		return nil, fmt.Errorf("no running listbind instance found: %w", err)
	}
	client, err := socket.NewClient(socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return client, nil
}

func checkResponse(response *socket.Response, err error) (*socket.Response, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to send command: %w", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("server error: %s", response.Message)
	}
	return response, nil
}

func sendAddRow(text, section string, tags []string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("row text cannot be empty")
	}
	client, err := connect()
	if err != nil {
		return err
	}
	_, err = checkResponse(client.SendAddRow(text, section, tags, nil))
	return err
}

func sendRemoveRow(key string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	_, err = checkResponse(client.SendRemoveRow(key))
	return err
}

func printRows() error {
	client, err := connect()
	if err != nil {
		return err
	}
	response, err := checkResponse(client.List())
	if err != nil {
		return err
	}
	for _, row := range response.Rows {
		fmt.Println(row)
	}
	return nil
}
