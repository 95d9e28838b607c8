package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCallbackHandler(t *testing.T) {
	t.Run("Valid Callback Sends Code", func(t *testing.T) {
		handler := NewCallbackHandler("expected_state")

		req := httptest.NewRequest(http.MethodGet, "/?code=auth_code&state=expected_state", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Code != "auth_code" {
			t.Errorf("expected code auth_code, got %s", result.Code)
		}
	})

	t.Run("Invalid State Rejected", func(t *testing.T) {
		handler := NewCallbackHandler("expected_state")

		req := httptest.NewRequest(http.MethodGet, "/?code=auth_code&state=wrong", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected state validation error")
		}
	})

	t.Run("Authorization Error Params Propagated", func(t *testing.T) {
		handler := NewCallbackHandler("expected_state")

		req := httptest.NewRequest(http.MethodGet, "/?state=expected_state&error=access_denied&error_description=user+denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected authorization error")
		}
	})

	t.Run("Second Callback Rejected", func(t *testing.T) {
		handler := NewCallbackHandler("expected_state")

		first := httptest.NewRequest(http.MethodGet, "/?code=one&state=expected_state", nil)
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/?code=two&state=expected_state", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replayed callback, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Code != "one" {
			t.Errorf("expected first code to win, got %s", result.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Handler Routes Registered", func(t *testing.T) {
		handler := NewCallbackHandler("s")
		router := NewBasicRouter()
		router.Handler(handler)

		req := httptest.NewRequest(http.MethodGet, "/callback?code=c&state=s", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 via /callback route, got %d", rec.Code)
		}
	})

	t.Run("Middleware Applied In Order", func(t *testing.T) {
		var order []string
		mk := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mk("outer"), mk("inner"))
		router.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
			t.Errorf("unexpected middleware order: %v", order)
		}
	})

	t.Run("Non-GET Methods Rejected", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			req := httptest.NewRequest(method, "/", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected 405 for %s, got %d", method, rec.Code)
			}
		}
	})
}
