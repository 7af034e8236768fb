package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"monkey-registry/internal/adapters/storage/memory"
	"monkey-registry/internal/domain/monkeys"
)

type Options struct {
	// Repo es el backend ya resuelto (ver config.Open). Si viene nil
	// se usa in-memory: modo dev y tests.
	Repo monkeys.Repository
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	repo := opts.Repo
	if repo == nil {
		repo = memory.NewMonkeyRepo()
	}

	svc := monkeys.NewService(repo)
	monkeys.RegisterRoutes(r, svc)

	return r
}
