package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/libgraph/library"
)

// Config carries everything the server needs to come up, resolved from flags
// and the environment by the start command.
type Config struct {
	Port       string
	MongoDBURI string
	Database   string
	JWTSecret  string
	InMemory   bool
}

func ListenAndServe(config Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// open the store
	var store library.Store
	if config.InMemory {
		store = library.NewMemoryStore()
	} else {
		if config.MongoDBURI == "" {
			fmt.Println("A connection string is required. Set MONGODB_URI or pass --mongodb-uri.")
			os.Exit(1)
		}

		mongoStore, err := library.DialMongo(ctx, config.MongoDBURI, config.Database)
		if err != nil {
			fmt.Println("Encountered error connecting to the store:", err.Error())
			os.Exit(1)
		}
		store = mongoStore
	}

	if config.JWTSecret == "" {
		fmt.Println("A signing secret is required. Set JWT_SECRET or pass --jwt-secret.")
		os.Exit(1)
	}

	// create the server instance
	server, err := library.New(store, library.NewAuth(config.JWTSecret))
	if err != nil {
		fmt.Println("Encountered error starting server:", err.Error())
		os.Exit(1)
	}

	mux := http.NewServeMux()

	// add the graphql endpoints to the router
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html") { // rudimentary check to see if this is accessed from a browser UI
			// if calling from a UI, redirect to the UI handler
			http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
			return
		}
		server.GraphQLHandler(w, r)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			// ensure our catch-all handler pattern "/" only runs on "/"
			http.NotFound(w, r)
			return
		}

		// set the necessary CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,HEAD,OPTIONS,POST,PUT")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		// if we are handling a pre-flight request
		if r.Method == http.MethodOptions {
			return
		}

		server.PlaygroundHandler(w, r)
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Port),
		Handler: mux,
	}

	// stop serving when the process is told to shut down
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		httpServer.Shutdown(shutdownCtx)
		store.Close(shutdownCtx)
	}()

	// start the server
	fmt.Printf("🚀 Server ready at http://localhost:%s/graphql\n", config.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
