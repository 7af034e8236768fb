package monkeys

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/monkeys", func(mr chi.Router) {
		mr.Post("/", createMonkeyHandler(svc))
		mr.Get("/", listMonkeysHandler(svc))

		// Search va antes que {monkeyID} para que chi no lo capture como id.
		mr.Get("/search", searchMonkeysHandler(svc))

		mr.Get("/{monkeyID}", getMonkeyHandler(svc))
		mr.Patch("/{monkeyID}", updateMonkeyHandler(svc))
		mr.Delete("/{monkeyID}", deleteMonkeyHandler(svc))
	})
}

type createMonkeyRequest struct {
	Name           string `json:"name"`
	Species        string `json:"species"`
	AgeYears       int    `json:"age_years"`
	FavouriteFruit string `json:"favourite_fruit"`
	LastCheckupAt  string `json:"last_checkup_at"` // iso8601 opcional
}

type updateMonkeyRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name           *string `json:"name"`
	Species        *string `json:"species"`
	AgeYears       *int    `json:"age_years"`
	FavouriteFruit *string `json:"favourite_fruit"`
	LastCheckupAt  *string `json:"last_checkup_at"`
}

func createMonkeyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMonkeyRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), CreateInput{
			Name:           req.Name,
			Species:        req.Species,
			AgeYears:       req.AgeYears,
			FavouriteFruit: req.FavouriteFruit,
			LastCheckupAt:  req.LastCheckupAt,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, m)
	}
}

func getMonkeyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, found, err := svc.Get(r.Context(), chi.URLParam(r, "monkeyID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !found {
			http.Error(w, "monkey not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func updateMonkeyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateMonkeyRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, found, err := svc.Update(r.Context(), chi.URLParam(r, "monkeyID"), UpdateInput{
			Name:           req.Name,
			Species:        req.Species,
			AgeYears:       req.AgeYears,
			FavouriteFruit: req.FavouriteFruit,
			LastCheckupAt:  req.LastCheckupAt,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if !found {
			http.Error(w, "monkey not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func deleteMonkeyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := svc.Delete(r.Context(), chi.URLParam(r, "monkeyID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "monkey not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listMonkeysHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), ListFilter{
			Name:    r.URL.Query().Get("name"),
			Species: r.URL.Query().Get("species"),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []Monkey{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func searchMonkeysHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []Monkey{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// writeError mapea la taxonomía de errores del dominio a status http.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrDuplicateName), errors.Is(err, ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
