package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"monkey-registry/internal/router"
)

func TestHTTP_EndToEnd_CRUDAndSearch(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// 1) Alta de luna la marmoset
	lunaID := createMonkey(t, ts.URL, map[string]any{
		"name":            "luna",
		"species":         "marmoset",
		"age_years":       2,
		"favourite_fruit": "mango",
	})

	// 2) Mismo (name, species) => 409
	{
		st, body := doReq(t, ts.URL, "POST", "/monkeys", map[string]any{
			"name":            "luna",
			"species":         "marmoset",
			"age_years":       3,
			"favourite_fruit": "banana",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for duplicate (name, species), got %d body=%s", st, string(body))
		}
	}

	// 3) Mismo nombre, otra especie => 201
	{
		st, body := doReq(t, ts.URL, "POST", "/monkeys", map[string]any{
			"name":            "luna",
			"species":         "macaque",
			"age_years":       3,
			"favourite_fruit": "banana",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 for other species, got %d body=%s", st, string(body))
		}
	}

	// 4) search "marmo" devuelve solo la marmoset
	{
		st, body := doReq(t, ts.URL, "GET", "/monkeys/search?q=marmo", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 search, got %d body=%s", st, string(body))
		}
		ids := decodeIDs(t, body)
		if len(ids) != 1 || ids[0] != lunaID {
			t.Fatalf("search marmo: expected exactly %s, got %v", lunaID, ids)
		}
	}

	// 5) list con filtro de especie
	{
		st, body := doReq(t, ts.URL, "GET", "/monkeys?species=marmoset", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
		}
		ids := decodeIDs(t, body)
		if len(ids) != 1 || ids[0] != lunaID {
			t.Fatalf("list species=marmoset: expected exactly %s, got %v", lunaID, ids)
		}
	}

	// 6) PATCH parcial: solo la fruta
	{
		st, body := doReq(t, ts.URL, "PATCH", "/monkeys/"+lunaID, map[string]any{
			"favourite_fruit": "papaya",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
		}
		var resp struct {
			Name           string `json:"name"`
			FavouriteFruit string `json:"favourite_fruit"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.FavouriteFruit != "papaya" || resp.Name != "luna" {
			t.Fatalf("bad patch result: %s", string(body))
		}
	}

	// 7) Validación en PATCH: edad fuera de rango => 400
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/monkeys/"+lunaID, map[string]any{
			"age_years": 30, // sobre el tope de marmoset
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for over-cap age, got %d", st)
		}
	}

	// 8) DELETE y luego GET => 404
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/monkeys/"+lunaID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/monkeys/"+lunaID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/monkeys/"+lunaID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for second delete, got %d", st)
		}
	}
}

func TestHTTP_CreateValidation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "POST", "/monkeys", map[string]any{
		"name":      "x", // demasiado corto
		"species":   "marmoset",
		"age_years": 2,
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for short name, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "POST", "/monkeys", map[string]any{
		"name":      "luna",
		"species":   "gorilla",
		"age_years": 2,
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown species, got %d", st)
	}

	// campos desconocidos rechazados, igual que en PATCH
	st, _ = doReq(t, ts.URL, "POST", "/monkeys", map[string]any{
		"name":      "luna",
		"species":   "marmoset",
		"age_years": 2,
		"banana":    true,
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", st)
	}
}

func createMonkey(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/monkeys", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create, got %d body=%s", st, string(body))
	}

	var resp struct {
		MonkeyID string `json:"monkey_id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.MonkeyID == "" {
		t.Fatalf("create: missing monkey_id body=%s", string(body))
	}
	return resp.MonkeyID
}

func decodeIDs(t *testing.T, body []byte) []string {
	t.Helper()

	var rows []struct {
		MonkeyID string `json:"monkey_id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		t.Fatalf("decode list: %v body=%s", err, string(body))
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.MonkeyID)
	}
	return ids
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
