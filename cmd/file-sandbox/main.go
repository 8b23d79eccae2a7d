// Command file-sandbox serves the file endpoints from an in-memory store so
// SDK users can exercise HTTP mode without a panel backend.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/panelhub/file_sdk_go/internal/devseed"
	"github.com/panelhub/file_sdk_go/internal/logging"
	"github.com/panelhub/file_sdk_go/pkg/file/mock"
)

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	prefix := flag.String("prefix", "/api", "route prefix in front of /file/*")
	seed := flag.String("seed", "", "path to JSON or YAML seed for the file store")
	root := flag.String("root", "./uploads", "upload root reported in file paths")
	userID := flag.Int("user", 1, "user id owning renamed files")
	token := flag.String("token", "", "require this value in the token header")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	logLevel := flag.String("log-level", "info", "debug, info, warn, error or off")
	flag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	store := mock.New(mock.WithRoot(*root), mock.WithUserID(*userID))
	if *seed != "" {
		entries, err := devseed.LoadFileSeed(*seed)
		if err != nil {
			logger.Fatal("load seed", zap.Error(err))
		}
		if err := store.Seed(entries); err != nil {
			logger.Fatal("apply seed", zap.Error(err))
		}
	}

	failCfg, err := parseFailConfig(*fail)
	if err != nil {
		logger.Fatal("parse fail flag", zap.Error(err))
	}

	app := newApp(store, serverConfig{
		prefix:  *prefix,
		token:   *token,
		latency: *latency,
		fail:    failCfg,
	}, logger)

	logger.Info("file-sandbox listening", zap.String("addr", *addr), zap.String("prefix", *prefix))
	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	fmt.Println()
	fmt.Println("export FILE_SDK_MODE=http")
	fmt.Printf("export FILE_API_URL=http://%s%s\n", host, strings.TrimRight(*prefix, "/"))
	if *token != "" {
		fmt.Printf("export FILE_API_TOKEN=%s\n", *token)
	}
	fmt.Println()

	if err := app.Listen(*addr); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
